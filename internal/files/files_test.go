package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gauthk/dataconsole/internal/security"
)

func newService(t *testing.T, maxBytes int64) (*Service, string) {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	m, err := security.NewManager(root)
	require.NoError(t, err)
	return NewService(m, maxBytes), root
}

func TestList_RegularFilesSorted(t *testing.T) {
	svc, root := newService(t, 0)
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.csv"), []byte("a"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	names, err := svc.List()
	require.NoError(t, err)
	require.Equal(t, []string{"a.csv", "b.txt"}, names)
}

func TestList_EmptyRoot(t *testing.T) {
	svc, _ := newService(t, 0)
	names, err := svc.List()
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestRead_EchoesRequestedName(t *testing.T) {
	svc, root := newService(t, 0)
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hello\nworld"), 0o644))

	c, err := svc.Read("notes.txt")
	require.NoError(t, err)
	require.Equal(t, "notes.txt", c.Filename)
	require.Equal(t, "hello\nworld", c.Content)
}

func TestRead_MissingFile(t *testing.T) {
	svc, _ := newService(t, 0)
	_, err := svc.Read("absent.txt")
	require.ErrorIs(t, err, security.ErrNotFound)
}

func TestRead_TraversalDenied(t *testing.T) {
	svc, _ := newService(t, 0)
	_, err := svc.Read("../escape.txt")
	require.ErrorIs(t, err, security.ErrOutsideRoot)
}

func TestRead_SizeCap(t *testing.T) {
	svc, root := newService(t, 4)
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.txt"), []byte("too large"), 0o644))

	_, err := svc.Read("big.txt")
	require.ErrorIs(t, err, ErrTooLarge)
}
