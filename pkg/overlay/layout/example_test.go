package layout_test

import (
	"fmt"

	"github.com/matzehuels/chartoverlay/pkg/overlay/layout"
)

func ExampleArrange() {
	items := []layout.Item{{Label: "O"}, {Label: "H"}, {Label: "L"}}

	r := layout.Arrange(items, layout.SideBySideColumns, layout.Size{ItemWidth: 60})
	for _, off := range r.Offsets {
		fmt.Printf("(%g,%g) ", off.X, off.Y)
	}
	fmt.Println()
	fmt.Println("width:", r.Extent.Width)
	// Output:
	// (0,0) (60,0) (120,0)
	// width: 190
}
