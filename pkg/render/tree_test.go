package render

import (
	"slices"
	"testing"

	"github.com/matzehuels/erwd/pkg/core/ranges"
	"github.com/matzehuels/erwd/pkg/core/widget"
)

func TestNewTreeNumbersInDocumentOrder(t *testing.T) {
	logo, err := widget.NewLeaf("logo", ranges.Point(10), widget.ConstantHeight(1))
	if err != nil {
		t.Fatal(err)
	}
	header, err := widget.NewContainer("header", []*widget.Widget{logo})
	if err != nil {
		t.Fatal(err)
	}
	page, err := widget.NewContainer("page", []*widget.Widget{header, logo})
	if err != nil {
		t.Fatal(err)
	}

	var ids []string
	NewTree(page).Walk(func(n *Node) { ids = append(ids, n.ID) })
	if want := []string{"page-1", "header-1", "logo-1", "logo-2"}; !slices.Equal(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}
