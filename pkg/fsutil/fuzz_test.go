package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cstpatch/pkg/fsutil"
)

func FuzzWriteAtomic(f *testing.F) {
	f.Add([]byte("CatScene"))
	f.Add([]byte{})
	f.Add([]byte{0x01, 0x20, 0x82, 0xa0, 0x00})
	f.Add(make([]byte, 4096))

	f.Fuzz(func(t *testing.T, content []byte) {
		path := filepath.Join(t.TempDir(), "scene.cst")
		ctx := context.Background()

		require.NoError(t, fsutil.WriteAtomic(ctx, path, content, 0))

		got, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, len(content), len(got))
		assert.Equal(t, int64(len(content)), info.Size)

		modified, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.False(t, modified)

		changed, err := fsutil.WriteAtomicIfChanged(ctx, path, content, 0)
		require.NoError(t, err)
		assert.False(t, changed)

		_, err = os.Stat(path)
		require.NoError(t, err)
	})
}
