package store

import (
	"context"
	"encoding/json"
	"io"
	"slices"
	"strings"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	schema "github.com/mutablelogic/go-flow/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	blob "gocloud.dev/blob"
	gcerrors "gocloud.dev/gcerrors"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// runEntry is a listed run, with the fields used for filtering and ordering
type runEntry struct {
	key   string
	flow  string
	start time.Time
	run   *schema.Run // set when the record was read to find flow and start
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	metaFlow  = "flow"
	metaStart = "start"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// CreateRun writes a run record. An id is assigned when the run has none;
// an existing run with the same id is a conflict.
func (s *blobstore) CreateRun(ctx context.Context, run schema.Run) (*schema.Run, error) {
	if run.Id == "" {
		run.Id = uuid.NewString()
	} else if err := validateId(run.Id); err != nil {
		return nil, err
	}
	key := s.runKey(run.Id)

	// Reject if the run already exists
	if _, err := s.bucket.Attributes(ctx, key); err == nil {
		return nil, httpresponse.ErrConflict.Withf("run %q already exists", run.Id)
	} else if gcerrors.Code(err) != gcerrors.NotFound {
		return nil, blobErr(err, key)
	}

	// Write the run
	data, err := json.Marshal(run)
	if err != nil {
		return nil, err
	}
	if err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{
		ContentType: "application/json",
		Metadata: map[string]string{
			metaFlow:  run.Flow,
			metaStart: run.Start.UTC().Format(time.RFC3339Nano),
		},
	}); err != nil {
		return nil, blobErr(err, key)
	}

	// Return success
	return &run, nil
}

// GetRun reads a run record by id
func (s *blobstore) GetRun(ctx context.Context, id string) (*schema.Run, error) {
	if err := validateId(id); err != nil {
		return nil, err
	}
	run, err := s.readRun(ctx, s.runKey(id))
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, httpresponse.ErrNotFound.Withf("run %q not found", id)
	}
	return run, blobErr(err, id)
}

// ListRuns returns runs newest first, optionally filtered by flow name.
// Count is the total number of matching runs before offset and limit are
// applied. A zero limit returns up to MaxListLimit runs. Filtering and
// ordering use the blob metadata, so only the runs returned are read.
func (s *blobstore) ListRuns(ctx context.Context, req schema.RunListRequest) (*schema.RunListResponse, error) {
	var entries []runEntry

	iter := s.bucket.List(&blob.ListOptions{
		Prefix: s.runsKeyPrefix(),
	})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, blobErr(err, s.runsKeyPrefix())
		}
		if obj.IsDir || !strings.HasSuffix(obj.Key, runsExt) {
			continue
		}
		entry, err := s.readEntry(ctx, obj.Key)
		if err != nil {
			return nil, blobErr(err, obj.Key)
		}
		if req.Flow != "" && entry.flow != req.Flow {
			continue
		}
		entries = append(entries, entry)
	}

	// Newest first
	slices.SortStableFunc(entries, func(a, b runEntry) int {
		if c := b.start.Compare(a.start); c != 0 {
			return c
		}
		return strings.Compare(a.key, b.key)
	})

	// Apply offset and limit
	response := schema.RunListResponse{Count: len(entries)}
	offset := max(req.Offset, 0)
	if offset > len(entries) {
		offset = len(entries)
	}
	entries = entries[offset:]
	limit := req.Limit
	if limit <= 0 || limit > schema.MaxListLimit {
		limit = schema.MaxListLimit
	}
	if limit < len(entries) {
		entries = entries[:limit]
	}

	// Read the page
	for _, entry := range entries {
		run := entry.run
		if run == nil {
			var err error
			if run, err = s.readRun(ctx, entry.key); err != nil {
				return nil, blobErr(err, entry.key)
			}
		}
		response.Body = append(response.Body, *run)
	}

	return &response, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// readEntry returns the flow and start of a run from the blob metadata, and
// reads the record itself only when the metadata is missing
func (s *blobstore) readEntry(ctx context.Context, key string) (runEntry, error) {
	entry := runEntry{key: key}
	attrs, err := s.bucket.Attributes(ctx, key)
	if err != nil {
		return entry, err
	}
	flow, hasFlow := attrs.Metadata[metaFlow]
	start, hasStart := attrs.Metadata[metaStart]
	if hasFlow && hasStart {
		if t, err := time.Parse(time.RFC3339Nano, start); err == nil {
			entry.flow, entry.start = flow, t
			return entry, nil
		}
	}

	// Fall back to the record
	run, err := s.readRun(ctx, key)
	if err != nil {
		return entry, err
	}
	entry.flow, entry.start, entry.run = run.Flow, run.Start, run
	return entry, nil
}

func (s *blobstore) readRun(ctx context.Context, key string) (*schema.Run, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		return nil, err
	}
	var run schema.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, httpresponse.ErrInternalError.Withf("run %q: %v", key, err)
	}
	return &run, nil
}

func validateId(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return httpresponse.ErrBadRequest.Withf("invalid run id %q", id)
	}
	return nil
}
