package maxent

import (
	"sort"

	"github.com/ppiankov/quotex/internal/features"
)

// Joint is a binary feature over an input feature, one of its values and a
// label. It fires when the input vector carries Key=Value and the candidate
// label is Label.
type Joint struct {
	Key   features.Key
	Value features.Value
	Label bool
}

// String renders the joint feature the way reports print it
func (j Joint) String() string {
	return j.Key.String() + "==" + j.Value.String()
}

// encoding assigns dense ids to the joint features seen in training
type encoding struct {
	ids    map[Joint]int
	joints []Joint
}

func newEncoding(samples []Sample) *encoding {
	seen := make(map[Joint]bool)
	for _, s := range samples {
		for k, v := range s.Features {
			seen[Joint{Key: k, Value: v, Label: s.Label}] = true
		}
	}

	joints := make([]Joint, 0, len(seen))
	for j := range seen {
		joints = append(joints, j)
	}
	sort.Slice(joints, func(a, b int) bool { return lessJoint(joints[a], joints[b]) })

	ids := make(map[Joint]int, len(joints))
	for i, j := range joints {
		ids[j] = i
	}
	return &encoding{ids: ids, joints: joints}
}

// encode returns the ids of the joint features active for v under label
func (e *encoding) encode(v features.Vector, label bool) []int {
	var active []int
	for k, val := range v {
		if id, ok := e.ids[Joint{Key: k, Value: val, Label: label}]; ok {
			active = append(active, id)
		}
	}
	sort.Ints(active)
	return active
}

func (e *encoding) length() int { return len(e.joints) }

func lessJoint(a, b Joint) bool {
	if a.Key.Kind() != b.Key.Kind() {
		return a.Key.Kind() < b.Key.Kind()
	}
	if a.Key.Payload() != b.Key.Payload() {
		return a.Key.Payload() < b.Key.Payload()
	}
	if a.Value.IsBool() != b.Value.IsBool() {
		return a.Value.IsBool()
	}
	if a.Value.AsNumber() != b.Value.AsNumber() {
		return a.Value.AsNumber() < b.Value.AsNumber()
	}
	return !a.Label && b.Label
}
