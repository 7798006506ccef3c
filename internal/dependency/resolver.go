package dependency

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gasnet/calculator/internal/network"
)

var (
	// ErrCycle is returned when the segment graph contains a cycle.
	ErrCycle = errors.New("network contains a cycle")
	// ErrDisconnected is returned when some nodes cannot be reached from the entry node.
	ErrDisconnected = errors.New("network contains disconnected nodes")
)

// ConnectivityError lists the nodes the entry node cannot reach.
type ConnectivityError struct {
	Entry       string
	Unreachable []string
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: %s not reachable from %s", ErrDisconnected, strings.Join(e.Unreachable, ", "), e.Entry)
}

func (e *ConnectivityError) Unwrap() error {
	return ErrDisconnected
}

// CheckConnectivity floods forward from the first segment's start node and
// fails when any node of the network stays unreachable.
func CheckConnectivity(segments []network.Segment) error {
	if len(segments) == 0 {
		return nil
	}

	entry := segments[0].Start
	reachable := map[string]bool{entry: true}
	for changed := true; changed; {
		changed = false
		for _, s := range segments {
			if reachable[s.Start] && !reachable[s.End] {
				reachable[s.End] = true
				changed = true
			}
		}
	}

	nodes := network.Nodes(segments)
	if len(reachable) == len(nodes) {
		return nil
	}
	var missing []string
	for _, id := range nodes {
		if !reachable[id] {
			missing = append(missing, id)
		}
	}
	return &ConnectivityError{Entry: entry, Unreachable: missing}
}

// Resolve runs Kahn's algorithm over the segment graph and returns:
// - ordered: node IDs in topological order (upstream first)
// - tiers: node IDs grouped by depth (tier 0 = no incoming segments, etc.)
func Resolve(segments []network.Segment) (ordered []string, tiers [][]string, err error) {
	if len(segments) == 0 {
		return nil, nil, nil
	}

	// Nodes are registered end-first per segment; roots are queued in
	// registration order.
	var nodes []string
	inDegree := make(map[string]int)
	next := make(map[string][]string)
	register := func(id string) {
		if _, ok := inDegree[id]; !ok {
			inDegree[id] = 0
			nodes = append(nodes, id)
		}
	}
	for _, s := range segments {
		register(s.End)
		register(s.Start)
		inDegree[s.End]++
		next[s.Start] = append(next[s.Start], s.End)
	}

	var queue []string
	for _, id := range nodes {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	ordered = make([]string, 0, len(nodes))
	for len(queue) > 0 {
		tier := make([]string, len(queue))
		copy(tier, queue)
		tiers = append(tiers, tier)
		var nextQueue []string
		for _, u := range queue {
			ordered = append(ordered, u)
			for _, v := range next[u] {
				inDegree[v]--
				if inDegree[v] == 0 {
					nextQueue = append(nextQueue, v)
				}
			}
		}
		queue = nextQueue
	}

	if len(ordered) != len(nodes) {
		return nil, nil, ErrCycle
	}
	return ordered, tiers, nil
}

// Order returns a copy of segments sorted by the topological position of
// their start node. Segments sharing a start node keep their relative order.
func Order(segments []network.Segment) ([]network.Segment, error) {
	if len(segments) <= 1 {
		return SortByNodeOrder(segments, nil), nil
	}
	ordered, _, err := Resolve(segments)
	if err != nil {
		return nil, err
	}
	return SortByNodeOrder(segments, ordered), nil
}

// SortByNodeOrder returns a copy of segments stably sorted by the position of
// their start node in nodeOrder, as produced by Resolve.
func SortByNodeOrder(segments []network.Segment, nodeOrder []string) []network.Segment {
	out := make([]network.Segment, len(segments))
	copy(out, segments)
	if len(out) <= 1 {
		return out
	}
	pos := make(map[string]int, len(nodeOrder))
	for i, id := range nodeOrder {
		pos[id] = i
	}
	sort.SliceStable(out, func(i, j int) bool {
		return pos[out[i].Start] < pos[out[j].Start]
	})
	return out
}
