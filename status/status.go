// Package status implements the on-disk, content-addressed status record
// store for uploaded files: one JSON file per tracked path, keyed by the
// blake3 hash of the path, with a lifecycle of Submitted -> Pending ->
// Confirmed, or NotFound if the gateway has forgotten the transaction.
package status

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/liteseed/arcore/arerr"
	"github.com/liteseed/arcore/base64url"
	"lukechampine.com/blake3"
)

// Code is a status record's lifecycle state.
type Code string

const (
	Submitted Code = "Submitted"
	Pending   Code = "Pending"
	Confirmed Code = "Confirmed"
	NotFound  Code = "NotFound"
)

// RawStatus mirrors the gateway's GET /tx/{id}/status response body.
type RawStatus struct {
	BlockHeight           int64  `json:"block_height"`
	BlockIndepHash        string `json:"block_indep_hash"`
	NumberOfConfirmations int64  `json:"number_of_confirmations"`
}

// Status is one tracked file's upload record.
type Status struct {
	ID           base64url.Value
	Status       Code
	FilePath     string
	CreatedAt    time.Time
	LastModified time.Time
	Reward       string
	RawStatus    *RawStatus
}

type wireStatus struct {
	ID                    base64url.Value `json:"id"`
	Status                Code            `json:"status"`
	FilePath              string          `json:"file_path"`
	CreatedAt             time.Time       `json:"created_at"`
	LastModified          time.Time       `json:"last_modified"`
	Reward                string          `json:"reward"`
	BlockHeight           *int64          `json:"block_height,omitempty"`
	BlockIndepHash        *string         `json:"block_indep_hash,omitempty"`
	NumberOfConfirmations *int64          `json:"number_of_confirmations,omitempty"`
}

// MarshalJSON flattens RawStatus's fields into the top-level object.
func (s Status) MarshalJSON() ([]byte, error) {
	w := wireStatus{
		ID:           s.ID,
		Status:       s.Status,
		FilePath:     s.FilePath,
		CreatedAt:    s.CreatedAt,
		LastModified: s.LastModified,
		Reward:       s.Reward,
	}
	if s.RawStatus != nil {
		w.BlockHeight = &s.RawStatus.BlockHeight
		w.BlockIndepHash = &s.RawStatus.BlockIndepHash
		w.NumberOfConfirmations = &s.RawStatus.NumberOfConfirmations
	}
	return json.Marshal(w)
}

// UnmarshalJSON reconstructs RawStatus from the flattened top-level fields
// if present.
func (s *Status) UnmarshalJSON(data []byte) error {
	var w wireStatus
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Status{
		ID:           w.ID,
		Status:       w.Status,
		FilePath:     w.FilePath,
		CreatedAt:    w.CreatedAt,
		LastModified: w.LastModified,
		Reward:       w.Reward,
	}
	if w.BlockHeight != nil {
		s.RawStatus = &RawStatus{
			BlockHeight:           *w.BlockHeight,
			BlockIndepHash:        derefString(w.BlockIndepHash),
			NumberOfConfirmations: derefInt64(w.NumberOfConfirmations),
		}
	}
	return nil
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt64(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

// Store is a directory of per-file status records, keyed by
// blake3(file_path).hex() + ".json".
type Store struct {
	Dir string
}

// NewStore returns a Store rooted at dir. The directory must already exist;
// callers typically create it once via os.MkdirAll before uploading.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) pathFor(filePath string) string {
	sum := blake3.Sum256([]byte(filePath))
	return filepath.Join(s.Dir, hex.EncodeToString(sum[:])+".json")
}

// Write persists st, overwriting any existing record for the same FilePath.
// Writing a status whose ID is empty fails with UnsignedTransaction: a
// status record only makes sense for a transaction that has been signed.
func (s *Store) Write(st Status) error {
	if st.ID.IsZero() {
		return arerr.New(arerr.UnsignedTransaction, "status.Write", nil)
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return arerr.New(arerr.Decode, "status.Write", err)
	}
	path := s.pathFor(st.FilePath)
	tmp, err := os.CreateTemp(s.Dir, ".status-*.tmp")
	if err != nil {
		return arerr.New(arerr.IO, "status.Write", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return arerr.New(arerr.IO, "status.Write", err)
	}
	if err := tmp.Close(); err != nil {
		return arerr.New(arerr.IO, "status.Write", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return arerr.New(arerr.IO, "status.Write", err)
	}
	return nil
}

// Read loads the status record for filePath, returning a StatusNotFound
// arerr.Error when none exists.
func (s *Store) Read(filePath string) (Status, error) {
	b, err := os.ReadFile(s.pathFor(filePath))
	if os.IsNotExist(err) {
		return Status{}, arerr.New(arerr.StatusNotFound, "status.Read", err)
	}
	if err != nil {
		return Status{}, arerr.New(arerr.IO, "status.Read", err)
	}
	var st Status
	if err := json.Unmarshal(b, &st); err != nil {
		return Status{}, arerr.New(arerr.Decode, "status.Read", err)
	}
	return st, nil
}

// ReadAll loads the status record for each of paths, skipping any that have
// no record yet rather than failing the whole batch.
func (s *Store) ReadAll(paths []string) ([]Status, error) {
	out := make([]Status, 0, len(paths))
	for _, p := range paths {
		st, err := s.Read(p)
		if arerr.Is(err, arerr.StatusNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// Filter returns the subset of statuses matching target's Code and, when
// minConfirms is non-nil, having at least that many confirmations (treating
// a missing RawStatus as zero confirmations). Filter never mutates its
// input slice.
func Filter(statuses []Status, target Code, minConfirms *int64) []Status {
	out := make([]Status, 0, len(statuses))
	for _, st := range statuses {
		if st.Status != target {
			continue
		}
		if minConfirms != nil {
			var confirms int64
			if st.RawStatus != nil {
				confirms = st.RawStatus.NumberOfConfirmations
			}
			if confirms < *minConfirms {
				continue
			}
		}
		out = append(out, st)
	}
	return out
}
