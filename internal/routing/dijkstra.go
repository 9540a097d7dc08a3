package routing

import "container/heap"

// queueItem is a tentative distance for a node. seq records push order so
// equal distances pop first-in first-out.
type queueItem struct {
	id   string
	dist int
	seq  int
}

// distQueue implements heap.Interface as a min-heap on (dist, seq).
type distQueue []queueItem

func (q distQueue) Len() int { return len(q) }

func (q distQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}

func (q distQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *distQueue) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *distQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// ShortestPath returns the minimum-weight path from start to end, inclusive
// of both ends, or nil when end is unreachable. start == end yields [start].
func (g *Graph) ShortestPath(start, end string) []string {
	path, _ := g.shortestPath(start, end)
	return path
}

// shortestPath also returns the adjacency entry used for every hop so
// callers can sum the costs of exactly the edges Dijkstra chose.
func (g *Graph) shortestPath(start, end string) ([]string, []Edge) {
	if start == end {
		return []string{start}, nil
	}

	dist := map[string]int{start: 0}
	prev := make(map[string]string)
	via := make(map[string]Edge)
	done := make(map[string]bool)

	seq := 0
	q := &distQueue{{id: start, dist: 0, seq: seq}}
	for q.Len() > 0 {
		cur := heap.Pop(q).(queueItem)
		if done[cur.id] {
			continue
		}
		done[cur.id] = true
		if cur.id == end {
			break
		}

		for _, e := range g.adj[cur.id] {
			if done[e.To] {
				continue
			}
			nd := cur.dist + e.Weight
			if old, seen := dist[e.To]; seen && nd >= old {
				continue
			}
			dist[e.To] = nd
			prev[e.To] = cur.id
			via[e.To] = e
			seq++
			heap.Push(q, queueItem{id: e.To, dist: nd, seq: seq})
		}
	}

	if !done[end] {
		return nil, nil
	}

	var path []string
	var hops []Edge
	for at := end; at != start; at = prev[at] {
		path = append(path, at)
		hops = append(hops, via[at])
	}
	path = append(path, start)

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	for i, j := 0, len(hops)-1; i < j; i, j = i+1, j-1 {
		hops[i], hops[j] = hops[j], hops[i]
	}
	return path, hops
}
