// Package procs snapshots the OS process table and answers name and
// parentage questions against it.
package procs

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// Record is one row of a process table snapshot.
type Record struct {
	PID            uint32
	ParentPID      uint32
	ExecutableName string
}

// Source produces process table snapshots.
//
// Every call to Processes captures a fresh snapshot; the returned sequence
// is meant to be ranged over once. A failure to open the snapshot is yielded
// as a single error with a zero Record, after which the sequence ends.
type Source interface {
	Processes() iter.Seq2[Record, error]
}

// SnapshotError reports that the process table could not be read.
type SnapshotError struct {
	Err error
}

func (e *SnapshotError) Error() string {
	if e == nil || e.Err == nil {
		return "process snapshot failed"
	}
	return fmt.Sprintf("process snapshot failed: %v", e.Err)
}

func (e *SnapshotError) Unwrap() error { return e.Err }

var (
	// ErrNoProcessesMatched is returned by FindByName when nothing matched.
	ErrNoProcessesMatched = errors.New("no processes matched")
	// ErrProcessNotFound is returned by NameOf for an unknown pid.
	ErrProcessNotFound = errors.New("process not found")
)

// Set is an unordered set of process IDs.
type Set map[uint32]struct{}

// NewSet builds a Set from pids.
func NewSet(pids ...uint32) Set {
	s := make(Set, len(pids))
	for _, pid := range pids {
		s[pid] = struct{}{}
	}
	return s
}

func (s Set) Add(pid uint32) { s[pid] = struct{}{} }

func (s Set) Contains(pid uint32) bool {
	_, ok := s[pid]
	return ok
}

// Union returns a new set holding the members of s and other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for pid := range s {
		out[pid] = struct{}{}
	}
	for pid := range other {
		out[pid] = struct{}{}
	}
	return out
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []uint32 {
	out := make([]uint32, 0, len(s))
	for pid := range s {
		out = append(out, pid)
	}
	slices.Sort(out)
	return out
}

// collect drains one snapshot of src.
func collect(src Source) ([]Record, error) {
	var records []Record
	for rec, err := range src.Processes() {
		if err != nil {
			return nil, wrapSnapshot(err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func wrapSnapshot(err error) error {
	var serr *SnapshotError
	if errors.As(err, &serr) {
		return err
	}
	return &SnapshotError{Err: err}
}
