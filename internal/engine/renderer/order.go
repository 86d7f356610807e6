package renderer

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glasspool/internal/scene"
)

// backToFront returns panel indices ordered farthest first from eye.
func backToFront(panels []scene.Panel, eye mgl32.Vec3) []int {
	order := make([]int, len(panels))
	dist := make([]float32, len(panels))
	for i, p := range panels {
		order[i] = i
		dist[i] = p.Transform.Position.Sub(eye).LenSqr()
	}
	sort.SliceStable(order, func(a, b int) bool {
		return dist[order[a]] > dist[order[b]]
	})
	return order
}
