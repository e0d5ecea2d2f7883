package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/adidayastudio/from-adidaya-sub005/internal/service"
	"github.com/adidayastudio/from-adidaya-sub005/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exploreFixture builds S (Foundation > Piles, Columns) and A, then opens
// the explorer on them.
func exploreFixture(t *testing.T) (*teatest.Driver, service.WBSEditor) {
	t.Helper()
	a := testApp(t)
	mustRun(t, a, "wbs", "add-root", "--discipline", "S")
	mustRun(t, a, "wbs", "add-root", "--discipline", "A")
	mustRun(t, a, "wbs", "add-child", "S", "--name", "Foundation")
	mustRun(t, a, "wbs", "add-child", "S", "--name", "Columns")
	mustRun(t, a, "wbs", "add-child", "S.1", "--name", "Piles")

	wb, err := a.workbench(context.Background())
	require.NoError(t, err)
	d := teatest.New(t, newExploreModel(wb.WBS), teatest.WithSize(100, 30))
	return d, wb.WBS
}

func explorer(d *teatest.Driver) *exploreModel {
	return d.Model.(*exploreModel)
}

func rowCodes(d *teatest.Driver) []string {
	m := explorer(d)
	out := make([]string, 0, len(m.rows))
	for _, n := range m.rows {
		out = append(out, n.Code)
	}
	return out
}

func TestExplore_StartsWithRootsOnly(t *testing.T) {
	d, _ := exploreFixture(t)

	assert.Equal(t, []string{"S", "A"}, rowCodes(d))
	view := plain(d.View())
	assert.Contains(t, view, "WBS EXPLORER")
	assert.Contains(t, view, "VILLA · Villa Ubud")
	assert.Contains(t, view, "› ▸ S  Structure")
}

func TestExplore_ToggleExpandsOneLevel(t *testing.T) {
	d, _ := exploreFixture(t)

	d.Press("enter")
	assert.Equal(t, []string{"S", "S.1", "S.2", "A"}, rowCodes(d))

	d.Press("down", "right")
	assert.Equal(t, []string{"S", "S.1", "S.1.1", "S.2", "A"}, rowCodes(d))
	assert.Contains(t, plain(d.View()), "› ├─ ▾ S.1  Foundation")

	d.Press("up", "space")
	assert.Equal(t, []string{"S", "A"}, rowCodes(d))
}

func TestExplore_CollapseKeepsDescendantState(t *testing.T) {
	d, _ := exploreFixture(t)
	d.Press("l", "j", "l")
	require.Equal(t, []string{"S", "S.1", "S.1.1", "S.2", "A"}, rowCodes(d))

	// On S.1.1, h jumps to the parent, then collapses S.
	d.Press("j", "h")
	assert.Equal(t, "S.1", explorer(d).selected().Code)
	d.Press("k", "h")
	assert.Equal(t, []string{"S", "A"}, rowCodes(d))

	d.Press("l")
	assert.Equal(t, []string{"S", "S.1", "S.1.1", "S.2", "A"}, rowCodes(d), "S.1 stays expanded")
}

func TestExplore_LeafToggleIsIgnored(t *testing.T) {
	d, _ := exploreFixture(t)

	d.Press("down", "enter")
	assert.Equal(t, []string{"S", "A"}, rowCodes(d))
	assert.Equal(t, "A", explorer(d).selected().Code)
}

func TestExplore_CursorStaysInBounds(t *testing.T) {
	d, _ := exploreFixture(t)

	d.Press("up", "up")
	assert.Equal(t, 0, explorer(d).cursor)
	d.Press("down", "down", "down")
	assert.Equal(t, 1, explorer(d).cursor)
}

func TestExplore_SearchIgnoresExpansion(t *testing.T) {
	d, _ := exploreFixture(t)

	d.Press("/")
	d.Type("pile")
	assert.Equal(t, []string{"S.1.1"}, rowCodes(d))
	assert.Contains(t, plain(d.View()), "/ pile")

	d.Press("enter")
	assert.False(t, explorer(d).searching)
	assert.Equal(t, []string{"S.1.1"}, rowCodes(d), "enter keeps the filter")

	d.Press("esc")
	assert.Equal(t, []string{"S", "A"}, rowCodes(d))
}

func TestExplore_SearchWithoutMatches(t *testing.T) {
	d, _ := exploreFixture(t)

	d.Press("/")
	d.Type("zzz")
	assert.Empty(t, rowCodes(d))
	assert.Contains(t, plain(d.View()), `No nodes match "zzz"`)
}

func TestExplore_ExpansionIsNotStored(t *testing.T) {
	d, editor := exploreFixture(t)
	d.Press("enter")

	require.NoError(t, editor.Load(context.Background()))
	assert.Len(t, editor.Flat(), 5)
	assert.Equal(t, []string{"S", "S.1", "S.2", "A"}, rowCodes(d))
}

func TestExplore_Quit(t *testing.T) {
	d, _ := exploreFixture(t)

	d.Press("q")
	assert.True(t, d.Quit)
	assert.Empty(t, strings.TrimSpace(d.View()))
}
