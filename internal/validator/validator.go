package validator

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/aretw0/turing/pkg/domain"
)

// Severity ranks an issue.
type Severity string

const (
	Warning Severity = "warning"
	Failure Severity = "error"
)

// Issue codes.
const (
	CodeSameHalting   = "same-halting-state"
	CodeUnreachable   = "unreachable-state"
	CodeHaltingNever  = "unreachable-halting-state"
	CodeShadowed      = "shadowed-rule"
	CodeLeavesHalting = "rule-leaves-halting-state"
	CodeDeadEnd       = "dead-end-state"
)

// Issue is one finding about a machine. Line is the 1-based description
// line of the offending rule, or 0 when the issue is not tied to a rule.
type Issue struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Code     string   `json:"code" yaml:"code"`
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"`
	Message  string   `json:"message" yaml:"message"`
}

func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s (%s)", i.Severity, i.Line, i.Message, i.Code)
	}
	return fmt.Sprintf("%s: %s (%s)", i.Severity, i.Message, i.Code)
}

// Report collects the issues found in a machine.
type Report struct {
	Issues []Issue `json:"issues" yaml:"issues"`
}

// OK reports whether no issue was found, or, when strict is false, whether
// every issue is a warning.
func (r Report) OK(strict bool) bool {
	for _, i := range r.Issues {
		if strict || i.Severity == Failure {
			return false
		}
	}
	return true
}

// Err folds the report into an error (nil when OK(strict)).
func (r Report) Err(strict bool) error {
	if r.OK(strict) {
		return nil
	}
	lines := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		lines[i] = issue.String()
	}
	return fmt.Errorf("found %d issues:\n- %s", len(r.Issues), strings.Join(lines, "\n- "))
}

func (r *Report) add(sev Severity, code string, line int, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: sev, Code: code, Line: line, Message: fmt.Sprintf(format, args...)})
}

// Validate inspects a loaded machine. None of the findings prevents the
// machine from running; they point at rules that can never matter or at a
// description that is probably not what its author meant.
func Validate(m *domain.Machine) Report {
	var r Report
	line := func(i int) int { return domain.HeaderLines + i + 1 }

	if m.Accept == m.Reject {
		r.add(Failure, CodeSameHalting, 2, "accept and reject are the same state %q; every halt accepts", m.Accept)
	}

	type key struct {
		state  string
		symbol byte
	}
	first := make(map[key]int)
	for i, tr := range m.Table {
		k := key{tr.From, tr.Read}
		if prev, ok := first[k]; ok {
			r.add(Warning, CodeShadowed, line(i), "rule %s is shadowed by line %d", tr, line(prev))
			continue
		}
		first[k] = i
		if m.IsHalting(tr.From) {
			r.add(Warning, CodeLeavesHalting, line(i), "rule %s leaves halting state %q and never fires", tr, tr.From)
		}
	}

	reachable := reach(m)
	for _, id := range m.States() {
		if reachable[id] {
			continue
		}
		if m.IsHalting(id) {
			r.add(Warning, CodeHaltingNever, 0, "halting state %q is never reached from %q", id, m.Initial)
			continue
		}
		r.add(Warning, CodeUnreachable, 0, "state %q is never reached from %q", id, m.Initial)
	}

	deadEnds(m, reachable, &r, line)
	return r
}

// deadEnds flags reachable non-halting states without rules: a run entering
// one is always stuck. The issue points at the first rule leading there and
// names the closest known state when the name looks like a typo.
func deadEnds(m *domain.Machine, reachable map[string]bool, r *Report, line func(int) int) {
	live := make(map[string]bool)
	for _, tr := range m.Table {
		live[tr.From] = true
	}

	reported := make(map[string]bool)
	for i, tr := range m.Table {
		id := tr.To
		if live[id] || m.IsHalting(id) || !reachable[id] || reported[id] {
			continue
		}
		reported[id] = true
		if guess := closest(id, m); guess != "" {
			r.add(Warning, CodeDeadEnd, line(i), "state %q has no rules, every run entering it is stuck; did you mean %q?", id, guess)
			continue
		}
		r.add(Warning, CodeDeadEnd, line(i), "state %q has no rules, every run entering it is stuck", id)
	}
}

// closest returns the state with rules (or a halting state) nearest to id by
// edit distance, if it is within a third of the name's length.
func closest(id string, m *domain.Machine) string {
	candidates := append([]string{m.Accept, m.Reject}, m.Table.Sources()...)
	best, bestDist := "", len(id)/3+1
	for _, c := range candidates {
		if c == id {
			continue
		}
		if d := levenshtein.ComputeDistance(id, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// reach walks the rules breadth-first from the initial state. Halting states
// are never expanded since a run stops on entering them.
func reach(m *domain.Machine) map[string]bool {
	visited := map[string]bool{m.Initial: true}
	queue := []string{m.Initial}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if m.IsHalting(current) {
			continue
		}
		for _, tr := range m.Table.From(current) {
			if !visited[tr.To] {
				visited[tr.To] = true
				queue = append(queue, tr.To)
			}
		}
	}
	return visited
}
