// Package editor applies single structural edits to immutable resume
// snapshots. Every operation deep-copies the input and returns a new value;
// the snapshot passed in is never modified, so callers can keep old
// references as trivial undo points.
package editor

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Op identifies an edit operation.
type Op string

const (
	// OpReplace sets a scalar field to a new value. The value is trimmed
	// before commit; replacing a field with its current trimmed value is a
	// no-op.
	OpReplace Op = "replace"
	// OpInsert appends a default-valued item to the end of a named list.
	OpInsert Op = "insert"
	// OpDelete removes the addressed item; following items shift down.
	// Deleting the last remaining item leaves an empty list, never null.
	OpDelete Op = "delete"
	// OpMove relocates the item at From to To within a named list. An
	// out-of-bounds To is a silent no-op.
	OpMove Op = "move"
)

// Instruction is a single edit addressed by a path into the resume
// aggregate, e.g. "experience[2].description[0]" or "skills".
type Instruction struct {
	Op    Op     `json:"op"`
	Path  string `json:"path"`
	Value string `json:"value,omitempty"`
	From  int    `json:"from,omitempty"`
	To    int    `json:"to,omitempty"`
}

// Apply produces a new snapshot reflecting exactly one edit. The returned
// bool reports whether anything changed; when false the input snapshot is
// returned unmodified (same-value replace, out-of-bounds move target).
func Apply(r types.Resume, ins Instruction) (types.Resume, bool, error) {
	segs, err := parsePath(ins.Path)
	if err != nil {
		return r, false, err
	}

	switch ins.Op {
	case OpReplace:
		return applyReplace(r, ins.Path, segs, ins.Value)
	case OpInsert:
		return applyInsert(r, ins.Path, segs)
	case OpDelete:
		return applyDelete(r, ins.Path, segs)
	case OpMove:
		return applyMove(r, ins.Path, segs, ins.From, ins.To)
	}
	return r, false, &InstructionError{Message: "unknown operation " + string(ins.Op)}
}

func applyReplace(r types.Resume, path string, segs []segment, value string) (types.Resume, bool, error) {
	trimmed := strings.TrimSpace(value)

	// Resolve against the original first so a same-value edit never clones.
	current, err := resolveScalar(&r, path, segs)
	if err != nil {
		return r, false, err
	}
	if *current == trimmed {
		return r, false, nil
	}

	next := r.Clone()
	target, err := resolveScalar(&next, path, segs)
	if err != nil {
		return r, false, err
	}
	*target = trimmed
	return next, true, nil
}

func applyInsert(r types.Resume, path string, segs []segment) (types.Resume, bool, error) {
	next := r.Clone()
	list, err := resolveList(&next, path, segs)
	if err != nil {
		return r, false, err
	}
	list.insertDefault()
	return next, true, nil
}

func applyDelete(r types.Resume, path string, segs []segment) (types.Resume, bool, error) {
	last := segs[len(segs)-1]
	if !last.hasIndex {
		return r, false, &PathError{Path: path, Message: "delete must address a list item, e.g. skills[0]"}
	}

	// The addressed list is the path with the final index stripped.
	listSegs := make([]segment, len(segs))
	copy(listSegs, segs)
	listSegs[len(listSegs)-1].hasIndex = false
	listSegs[len(listSegs)-1].index = 0

	next := r.Clone()
	list, err := resolveList(&next, path, listSegs)
	if err != nil {
		return r, false, err
	}
	if last.index < 0 || last.index >= list.len() {
		return r, false, &PathError{Path: path, Message: "delete index out of range"}
	}
	list.remove(last.index)
	return next, true, nil
}

func applyMove(r types.Resume, path string, segs []segment, from, to int) (types.Resume, bool, error) {
	next := r.Clone()
	list, err := resolveList(&next, path, segs)
	if err != nil {
		return r, false, err
	}
	if from < 0 || from >= list.len() {
		return r, false, &PathError{Path: path, Message: "move source index out of range"}
	}
	// Out-of-bounds target: the list is returned unchanged.
	if to < 0 || to >= list.len() {
		return r, false, nil
	}
	if from == to {
		return r, false, nil
	}
	list.move(from, to)
	return next, true, nil
}
