package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/repository"
	"github.com/adidayastudio/from-adidaya-sub005/internal/testutil"
	"github.com/adidayastudio/from-adidaya-sub005/internal/wbs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWBSEditor(t *testing.T, opts ...UseCaseObserver) (WBSEditor, *testutil.FailOnNthExecUoW, func() []string) {
	t.Helper()
	database, ws := setupWorkspace(t)
	uow := testutil.NewFailOnNthExecUoW(database, 0, errStoreDown)
	catalog := domain.NewDisciplineCatalog(domain.DefaultDisciplines())
	editor := NewWBSEditor(ws, catalog, repository.NewSQLiteWBSNodeRepo(database), uow, opts...)
	require.NoError(t, editor.Load(context.Background()))
	return editor, uow, func() []string { return storedCodes(t, database, ws.ID) }
}

func TestWBSEditor_AllocatesHierarchicalCodes(t *testing.T) {
	editor, _, stored := newTestWBSEditor(t)
	ctx := context.Background()

	s, err := editor.AddRoot(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "S", s.Code)
	assert.Equal(t, "Structure", s.NameEn)
	assert.Equal(t, "Struktur", s.NameID)

	s1, err := editor.AddChild(ctx, s.ID, "Foundation")
	require.NoError(t, err)
	s2, err := editor.AddChild(ctx, s.ID, "Columns")
	require.NoError(t, err)
	s11, err := editor.AddChild(ctx, s1.ID, "Pile cap")
	require.NoError(t, err)

	assert.Equal(t, "S.1", s1.Code)
	assert.Equal(t, "S.2", s2.Code)
	assert.Equal(t, "S.1.1", s11.Code)
	assert.Equal(t, 2, s11.Depth)

	assert.Equal(t, []string{"S", "S.1", "S.1.1", "S.2"}, nodeCodes(editor.Flat()))
	assert.ElementsMatch(t, []string{"S", "S.1", "S.2", "S.1.1"}, stored())
	assert.Equal(t, []string{"S"}, editor.RootCodes())
}

func TestWBSEditor_DuplicateCodeRejectedWithoutStateChange(t *testing.T) {
	editor, _, stored := newTestWBSEditor(t)
	ctx := context.Background()

	_, err := editor.AddRoot(ctx, "S")
	require.NoError(t, err)
	before := nodeCodes(editor.Flat())

	tests := []struct {
		name   string
		add    func() error
		source string
	}{
		{"discipline root twice", func() error { _, err := editor.AddRoot(ctx, "S"); return err }, "wbs"},
		{"custom root equal to node", func() error { _, err := editor.AddCustomRoot(ctx, "s", "Other"); return err }, "wbs"},
		{"custom root equal to discipline", func() error { _, err := editor.AddCustomRoot(ctx, "m", "Mine"); return err }, "discipline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.add()
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrDuplicateCode))
			var dup *domain.DuplicateCodeError
			require.True(t, errors.As(err, &dup))
			assert.Equal(t, tt.source, dup.Source)

			assert.Equal(t, before, nodeCodes(editor.Flat()))
			assert.Equal(t, before, stored())
		})
	}
}

func TestWBSEditor_CustomRoot(t *testing.T) {
	editor, _, _ := newTestWBSEditor(t)
	ctx := context.Background()

	x, err := editor.AddCustomRoot(ctx, " x ", "Preliminaries")
	require.NoError(t, err)
	assert.Equal(t, "X", x.Code)
	assert.True(t, x.IsRoot())

	_, err = editor.AddCustomRoot(ctx, "", "Nameless code")
	assert.Error(t, err)
	_, err = editor.AddRoot(ctx, "Q")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestWBSEditor_ChildCodeReissuedAfterDeletingLastChild(t *testing.T) {
	editor, _, _ := newTestWBSEditor(t)
	ctx := context.Background()

	s, err := editor.AddRoot(ctx, "S")
	require.NoError(t, err)
	_, err = editor.AddChild(ctx, s.ID, "Foundation")
	require.NoError(t, err)
	s2, err := editor.AddChild(ctx, s.ID, "Columns")
	require.NoError(t, err)

	_, err = editor.Delete(ctx, s2.ID)
	require.NoError(t, err)

	again, err := editor.AddChild(ctx, s.ID, "Beams")
	require.NoError(t, err)
	assert.Equal(t, "S.2", again.Code)
}

// Child codes come from the live child count, so removing a middle child
// makes the next code collide with its surviving sibling until that one goes.
func TestWBSEditor_ChildCodeCollidesAfterDeletingMiddleChild(t *testing.T) {
	editor, _, stored := newTestWBSEditor(t)
	ctx := context.Background()

	s, err := editor.AddRoot(ctx, "S")
	require.NoError(t, err)
	s1, err := editor.AddChild(ctx, s.ID, "Foundation")
	require.NoError(t, err)
	s2, err := editor.AddChild(ctx, s.ID, "Columns")
	require.NoError(t, err)

	_, err = editor.Delete(ctx, s1.ID)
	require.NoError(t, err)
	before := nodeCodes(editor.Flat())

	_, err = editor.AddChild(ctx, s.ID, "Beams")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateCode))
	var dup *domain.DuplicateCodeError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "S.2", dup.Code)
	assert.Equal(t, before, nodeCodes(editor.Flat()))
	assert.ElementsMatch(t, []string{"S", "S.2"}, stored())

	_, err = editor.Delete(ctx, s2.ID)
	require.NoError(t, err)
	again, err := editor.AddChild(ctx, s.ID, "Beams")
	require.NoError(t, err)
	assert.Equal(t, "S.1", again.Code)
}

func TestWBSEditor_DeleteCascades(t *testing.T) {
	editor, _, stored := newTestWBSEditor(t)
	ctx := context.Background()

	s, _ := editor.AddRoot(ctx, "S")
	a, _ := editor.AddRoot(ctx, "A")
	s1, _ := editor.AddChild(ctx, s.ID, "Foundation")
	s11, _ := editor.AddChild(ctx, s1.ID, "Pile cap")

	removed, err := editor.Delete(ctx, s.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{s.ID, s1.ID, s11.ID}, removed)
	assert.Equal(t, []string{"A"}, nodeCodes(editor.Flat()))
	assert.Equal(t, []string{"A"}, stored())

	_, err = editor.Resolve(s11.Code)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	got, err := editor.Resolve("a")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

func TestWBSEditor_RenameKeepsCode(t *testing.T) {
	editor, _, _ := newTestWBSEditor(t)
	ctx := context.Background()

	s, _ := editor.AddRoot(ctx, "S")
	name := "Structural works"
	got, err := editor.Rename(ctx, s.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "S", got.Code)
	assert.Equal(t, "Structural works", got.NameEn)
	assert.Equal(t, "Struktur", got.NameID)

	empty := ""
	_, err = editor.Rename(ctx, s.ID, &empty, &empty)
	assert.Error(t, err)
}

func TestWBSEditor_PersistenceFailureReloadsFromStore(t *testing.T) {
	editor, uow, stored := newTestWBSEditor(t)
	ctx := context.Background()

	s, err := editor.AddRoot(ctx, "S")
	require.NoError(t, err)

	uow.SetFailOn(1)
	_, err = editor.AddChild(ctx, s.ID, "Foundation")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPersistence))
	assert.True(t, errors.Is(err, errStoreDown))
	assert.Equal(t, []string{"S"}, nodeCodes(editor.Flat()), "optimistic node discarded by reload")

	_, err = editor.Delete(ctx, s.ID)
	require.Error(t, err)
	assert.Equal(t, []string{"S"}, nodeCodes(editor.Flat()), "deleted node restored by reload")
	assert.Equal(t, []string{"S"}, stored())

	uow.SetFailOn(0)
	child, err := editor.AddChild(ctx, s.ID, "Foundation")
	require.NoError(t, err)
	assert.Equal(t, "S.1", child.Code)
}

func TestWBSEditor_ViewModes(t *testing.T) {
	editor, _, _ := newTestWBSEditor(t)
	ctx := context.Background()

	s, _ := editor.AddRoot(ctx, "S")
	s1, _ := editor.AddChild(ctx, s.ID, "Foundation")
	_, _ = editor.AddChild(ctx, s1.ID, "Pile cap")

	summary := editor.View(domain.FamilyBallpark, domain.ModeSummary, nil, "")
	breakdown := editor.View(domain.FamilyBallpark, domain.ModeBreakdown, nil, "")
	assert.Equal(t, []string{"S"}, nodeCodes(summary))
	assert.Equal(t, []string{"S", "S.1"}, nodeCodes(breakdown))

	explorer := editor.View(domain.FamilyExplorer, "", wbs.NewExpandedSet("S"), "")
	assert.Equal(t, []string{"S", "S.1"}, nodeCodes(explorer))

	found := editor.View(domain.FamilyExplorer, "", nil, "pile")
	assert.Equal(t, []string{"S.1.1"}, nodeCodes(found))
}

func TestWBSEditor_ConcurrentChildrenGetDistinctCodes(t *testing.T) {
	editor, _, stored := newTestWBSEditor(t)
	ctx := context.Background()

	s, err := editor.AddRoot(ctx, "S")
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := editor.AddChild(ctx, s.ID, fmt.Sprintf("Item %d", i)); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	codes := stored()
	sort.Strings(codes)
	want := []string{"S"}
	for i := 1; i <= workers; i++ {
		want = append(want, fmt.Sprintf("S.%d", i))
	}
	sort.Strings(want)
	assert.Equal(t, want, codes)
}

func TestWBSEditor_EmitsUseCaseEvents(t *testing.T) {
	var buf bytes.Buffer
	editor, _, _ := newTestWBSEditor(t, NewLogUseCaseObserver(&buf))

	_, err := editor.AddRoot(context.Background(), "S")
	require.NoError(t, err)
	_, err = editor.AddRoot(context.Background(), "S")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "use_case=wbs-add-root")
	assert.Contains(t, out, "success=true")
	assert.Contains(t, out, "level=ERROR")
}
