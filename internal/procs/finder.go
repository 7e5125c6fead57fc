package procs

import (
	"fmt"
	"log/slog"
	"strings"
)

type matchKind int

const (
	noMatch matchKind = iota
	matchExact
	matchExeSuffix
	matchSubstring
)

// Normalize reduces a program name or path to the form used for matching:
// the final path component, lowercased. Both slash styles are treated as
// separators so Windows paths normalize the same on every platform.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name)
}

// classify reports how a normalized record name matches a normalized target.
func classify(name, target string) matchKind {
	if target == "" {
		return noMatch
	}
	switch {
	case name == target:
		return matchExact
	case !strings.HasSuffix(target, ".exe") && name == target+".exe":
		return matchExeSuffix
	case strings.Contains(name, target):
		return matchSubstring
	default:
		return noMatch
	}
}

// Finder answers process questions against a Source.
type Finder struct {
	src    Source
	logger *slog.Logger
}

// NewFinder returns a Finder reading from src. A nil logger discards output.
func NewFinder(src Source, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Finder{src: src, logger: logger}
}

// Match returns every process whose executable name matches target.
//
// A record matches when its name equals the target, equals the target plus
// ".exe", or contains the target. The substring rule tolerates launchers
// that rename themselves and can over-match; such hits are logged at debug
// level. An empty target matches nothing and takes no snapshot.
func (f *Finder) Match(target string) (Set, error) {
	matched := Set{}
	norm := Normalize(target)
	if norm == "" {
		return matched, nil
	}

	for rec, err := range f.src.Processes() {
		if err != nil {
			return nil, wrapSnapshot(err)
		}
		kind := classify(Normalize(rec.ExecutableName), norm)
		if kind == noMatch {
			continue
		}
		if kind == matchSubstring {
			f.logger.Debug("process matched by substring only",
				"target", norm,
				"pid", rec.PID,
				"name", rec.ExecutableName,
			)
		}
		matched.Add(rec.PID)
	}
	return matched, nil
}

// FindByName is Match with an empty result reported as ErrNoProcessesMatched.
func (f *Finder) FindByName(target string) (Set, error) {
	pids, err := f.Match(target)
	if err != nil {
		return nil, err
	}
	if len(pids) == 0 {
		return nil, fmt.Errorf("%q: %w", target, ErrNoProcessesMatched)
	}
	return pids, nil
}

// Descendants returns the transitive children of roots, excluding the roots
// themselves, computed from a single snapshot.
func (f *Finder) Descendants(roots Set) (Set, error) {
	out := Set{}
	if len(roots) == 0 {
		return out, nil
	}

	records, err := collect(f.src)
	if err != nil {
		return nil, err
	}

	children := make(map[uint32][]uint32, len(records))
	for _, rec := range records {
		if rec.PID == rec.ParentPID {
			continue
		}
		children[rec.ParentPID] = append(children[rec.ParentPID], rec.PID)
	}

	visited := make(Set, len(roots))
	queue := make([]uint32, 0, len(roots))
	for pid := range roots {
		visited.Add(pid)
		queue = append(queue, pid)
	}

	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, child := range children[parent] {
			if visited.Contains(child) {
				continue
			}
			visited.Add(child)
			out.Add(child)
			queue = append(queue, child)
		}
	}
	return out, nil
}

// NameOf returns the executable name of pid.
func (f *Finder) NameOf(pid uint32) (string, error) {
	for rec, err := range f.src.Processes() {
		if err != nil {
			return "", wrapSnapshot(err)
		}
		if rec.PID == pid {
			return rec.ExecutableName, nil
		}
	}
	return "", fmt.Errorf("pid %d: %w", pid, ErrProcessNotFound)
}
