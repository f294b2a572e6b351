package main

import "sort"

// targetGroup collects the moving tanks that aim at one cell
type targetGroup struct {
	target Cell
	plans  []MovePlan
}

// groupByTarget buckets moving plans by target cell. Groups are ordered by
// row then column; plans within a group keep their input order.
func groupByTarget(plans []MovePlan) []targetGroup {
	index := make(map[Cell]int)
	var groups []targetGroup
	for _, p := range plans {
		if !p.WillMove() {
			continue
		}
		i, ok := index[p.Target]
		if !ok {
			i = len(groups)
			index[p.Target] = i
			groups = append(groups, targetGroup{target: p.Target})
		}
		groups[i].plans = append(groups[i].plans, p)
	}
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i].target, groups[j].target
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return groups
}
