package sink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
	"github.com/matzehuels/skillgalaxy/pkg/core/render/sink"
)

func ExampleRenderSVG() {
	g := galaxy.New()
	_ = g.AddCluster(galaxy.Cluster{ID: "systems", Label: "Systems", Radius: 300})
	_ = g.AddNode(galaxy.Node{ID: "me", Kind: galaxy.KindRoot, Radius: 18})
	_ = g.AddNode(galaxy.Node{ID: "systems", Kind: galaxy.KindCluster, Cluster: "systems", Radius: 12})
	_ = g.AddNode(galaxy.Node{ID: "os", Kind: galaxy.KindCourse, Cluster: "systems", Radius: 7})
	_ = g.Place("me", 0, 0)
	_ = g.Place("systems", 300, 0)
	_ = g.Place("os", 380, 0)

	svg, err := sink.RenderSVG(g, sink.WithStyle(sink.Simple{}))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(strings.Count(string(svg), `class="star `), "stars")
	// Output:
	// 3 stars
}
