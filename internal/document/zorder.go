package document

import "sort"

// ZOrder returns the indices of the slide's elements in paint order:
// ascending ZIndex, insertion order breaking ties. Hit-testing walks this
// order backwards so the topmost element wins.
func ZOrder(s *Slide) []int {
	order := make([]int, len(s.Elements))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return s.Elements[order[a]].ZIndex < s.Elements[order[b]].ZIndex
	})
	return order
}

// MaxZIndex returns the highest ZIndex on the slide, or -1 when empty. New
// elements are placed at MaxZIndex+1 so they land on top.
func MaxZIndex(s *Slide) int {
	maxZ := -1
	for i := range s.Elements {
		if s.Elements[i].ZIndex > maxZ {
			maxZ = s.Elements[i].ZIndex
		}
	}
	return maxZ
}

// ReindexZ reassigns dense z-indices 0..n-1 preserving the current paint
// order. Layer-reorder operations call this after moving an element so
// indices stay unique without unbounded growth.
func ReindexZ(s *Slide) {
	order := ZOrder(s)
	for z, idx := range order {
		s.Elements[idx].ZIndex = z
	}
}
