package status

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/studybuddy/internal/normalize"
)

// ErrMalformed is returned when a status body is not a JSON object.
var ErrMalformed = errors.New("malformed status response")

// Prober performs the two status calls.
type Prober interface {
	Status(ctx context.Context) (PrimaryStatus, error)
	TempStatus(ctx context.Context) (TempStoreStatus, error)
}

// CollectOptions controls which probes run.
type CollectOptions struct {
	// ProbeTempStore enables the temp-store probe. When false the
	// secondary probe is NotAttempted.
	ProbeTempStore bool
}

// Report is the aggregated snapshot plus the individual probe errors, kept
// for logging.
type Report struct {
	Snapshot   Snapshot
	PrimaryErr error
	TempErr    error
}

// Collect runs both probes concurrently and aggregates once both have
// settled. A failing probe never cancels the other.
func Collect(ctx context.Context, p Prober, opts CollectOptions) Report {
	primary := NotAttempted[PrimaryStatus]()
	secondary := NotAttempted[TempStoreStatus]()

	var eg errgroup.Group
	eg.Go(func() error {
		v, err := p.Status(ctx)
		if err != nil {
			primary = Failed[PrimaryStatus](err)
			return nil
		}
		primary = Succeeded(v)
		return nil
	})
	if opts.ProbeTempStore {
		eg.Go(func() error {
			v, err := p.TempStatus(ctx)
			if err != nil {
				secondary = Failed[TempStoreStatus](err)
				return nil
			}
			secondary = Succeeded(v)
			return nil
		})
	}
	_ = eg.Wait()

	return Report{
		Snapshot:   Aggregate(primary, secondary),
		PrimaryErr: primary.Err,
		TempErr:    secondary.Err,
	}
}

// ParsePrimary decodes a health/status body. Counts accept numbers or
// numeric strings.
func ParsePrimary(raw []byte) (PrimaryStatus, error) {
	root, err := parseObject(raw)
	if err != nil {
		return PrimaryStatus{}, err
	}
	st := PrimaryStatus{DocumentsLoaded: normalize.Count(root.Get("documents_loaded"))}
	st.Status, _ = normalize.FirstScalar(root, "status")
	return st, nil
}

// ParseTempStore decodes a temp-store status body. The document name is
// read from document_name or filename; "N/A" and blanks mean no document.
func ParseTempStore(raw []byte) (TempStoreStatus, error) {
	root, err := parseObject(raw)
	if err != nil {
		return TempStoreStatus{}, err
	}
	st := TempStoreStatus{
		IsActive:   normalize.Flag(root.Get("is_active")),
		ChunkCount: normalize.Count(root.Get("chunk_count")),
	}
	if name, ok := normalize.FirstScalar(root, "document_name", "filename"); ok && !strings.EqualFold(name, "N/A") {
		st.DocumentName = &name
	}
	return st, nil
}

func parseObject(raw []byte) (gjson.Result, error) {
	trimmed := bytes.TrimSpace(raw)
	if !gjson.ValidBytes(trimmed) {
		return gjson.Result{}, ErrMalformed
	}
	root := gjson.ParseBytes(trimmed)
	if !root.IsObject() {
		return gjson.Result{}, ErrMalformed
	}
	return root, nil
}
