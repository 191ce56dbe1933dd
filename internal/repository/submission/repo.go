// Package submission persists the store-submission log.
//
// Submissions are JSON values keyed by a monotonically increasing id taken
// from an atomic counter, replacing the module-level dictionary plus file
// snapshot the previous system used.
package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/kailas-cloud/listcheck/internal/db"
	"github.com/kailas-cloud/listcheck/internal/domain"
	domsub "github.com/kailas-cloud/listcheck/internal/domain/submission"
)

const defaultKeyPrefix = "listcheck:"

// store is the consumer interface for the submission log (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Incr(ctx context.Context, key string) (int64, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/submission.Repository.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a submission repository.
func New(s store) *Repo {
	return &Repo{store: s, keyPrefix: defaultKeyPrefix}
}

// WithKeyPrefix overrides the storage key prefix.
func (r *Repo) WithKeyPrefix(prefix string) *Repo {
	if prefix != "" {
		r.keyPrefix = prefix
	}
	return r
}

// NextID allocates the next submission id.
func (r *Repo) NextID(ctx context.Context) (int64, error) {
	id, err := r.store.Incr(ctx, r.keyPrefix+"submission_seq")
	if err != nil {
		return 0, fmt.Errorf("next submission id: %w", err)
	}
	return id, nil
}

// Save stores a submission under its id, overwriting any previous revision.
func (r *Repo) Save(ctx context.Context, sub domsub.Submission) error {
	data, err := json.Marshal(toDTO(sub))
	if err != nil {
		return fmt.Errorf("marshal submission %d: %w", sub.ID(), err)
	}
	if err := r.store.Set(ctx, r.key(sub.ID()), data); err != nil {
		return fmt.Errorf("save submission %d: %w", sub.ID(), err)
	}
	return nil
}

// Get returns a submission by id.
func (r *Repo) Get(ctx context.Context, id int64) (domsub.Submission, error) {
	raw, err := r.store.Get(ctx, r.key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domsub.Submission{}, fmt.Errorf("submission %d: %w", id, domain.ErrSubmissionNotFound)
		}
		return domsub.Submission{}, fmt.Errorf("get submission %d: %w", id, err)
	}

	var dto submissionDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return domsub.Submission{}, fmt.Errorf("unmarshal submission %d: %w", id, err)
	}
	return fromDTO(dto), nil
}

// List returns all submissions ordered by id ascending.
func (r *Repo) List(ctx context.Context) ([]domsub.Submission, error) {
	keys, err := r.store.Scan(ctx, r.keyPrefix+"submission:*")
	if err != nil {
		return nil, fmt.Errorf("scan submissions: %w", err)
	}

	subs := make([]domsub.Submission, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.Get(ctx, key)
		if err != nil {
			// A key deleted between scan and get is not an error.
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		var dto submissionDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", key, err)
		}
		subs = append(subs, fromDTO(dto))
	}

	sort.Slice(subs, func(a, b int) bool { return subs[a].ID() < subs[b].ID() })
	return subs, nil
}

func (r *Repo) key(id int64) string {
	return r.keyPrefix + "submission:" + strconv.FormatInt(id, 10)
}
