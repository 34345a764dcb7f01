package shortcode

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shorturl-analytics/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGenerator() *Generator {
	return NewGenerator(0, 0, zap.NewNop().Sugar())
}

func never(context.Context, string) (bool, error) { return false, nil }

func TestGenerate_RandomSlug(t *testing.T) {
	g := newTestGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		slug, custom, err := g.Generate("")
		require.NoError(t, err)
		assert.False(t, custom)
		assert.Len(t, slug, DefaultLength)
		for _, r := range slug {
			assert.True(t, strings.ContainsRune(Charset, r), "非法字符 %q", r)
		}
		seen[slug] = true
	}
	assert.Greater(t, len(seen), 190, "随机短码不应大量重复")
}

func TestGenerate_WhitespaceMeansNoPreference(t *testing.T) {
	slug, custom, err := newTestGenerator().Generate("   \t")
	require.NoError(t, err)
	assert.False(t, custom)
	assert.Len(t, slug, DefaultLength)
}

func TestGenerate_CustomSlug(t *testing.T) {
	g := newTestGenerator()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"字母数字", "promo2024", "promo2024", false},
		{"连字符和下划线", "my-link_1", "my-link_1", false},
		{"首尾空白被去掉", "  abc ", "abc", false},
		{"空格", "my link", "", true},
		{"斜杠", "a/b", "", true},
		{"非 ASCII", "链接", "", true},
		{"过长", strings.Repeat("a", MaxSlugLength+1), "", true},
		{"保留路径", "health", "", true},
		{"保留路径大小写", "API", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, custom, err := g.Generate(tt.input)
			assert.True(t, custom)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperror.ErrInvalidSlug)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, slug)
		})
	}
}

func TestIssue_CustomSlugTakenFailsImmediately(t *testing.T) {
	g := newTestGenerator()
	calls := 0
	exists := func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}

	_, err := g.Issue(context.Background(), "taken", exists)

	assert.ErrorIs(t, err, apperror.ErrSlugTaken)
	assert.Equal(t, 1, calls, "自定义短码不重试")
}

func TestIssue_RandomSlugRetriesOnCollision(t *testing.T) {
	g := newTestGenerator()
	calls := 0
	exists := func(context.Context, string) (bool, error) {
		calls++
		return calls < 3, nil
	}

	slug, err := g.Issue(context.Background(), "", exists)

	require.NoError(t, err)
	assert.Len(t, slug, DefaultLength)
	assert.Equal(t, 3, calls)
}

func TestIssue_RandomSlugExhausted(t *testing.T) {
	g := NewGenerator(6, 4, zap.NewNop().Sugar())
	calls := 0
	exists := func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}

	_, err := g.Issue(context.Background(), "", exists)

	assert.ErrorIs(t, err, apperror.ErrSlugExhausted)
	assert.Equal(t, 4, calls)
}

func TestIssue_ExistsErrorIsReturned(t *testing.T) {
	dbErr := errors.New("db down")
	_, err := newTestGenerator().Issue(context.Background(), "", func(context.Context, string) (bool, error) {
		return false, dbErr
	})
	assert.ErrorIs(t, err, dbErr)
}

func TestIssue_InvalidCustomSlugSkipsLookup(t *testing.T) {
	_, err := newTestGenerator().Issue(context.Background(), "bad slug!", func(context.Context, string) (bool, error) {
		t.Fatal("不应查询存储")
		return false, nil
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidSlug)
}

func TestIssue_FreeSlug(t *testing.T) {
	slug, err := newTestGenerator().Issue(context.Background(), "launch", never)
	require.NoError(t, err)
	assert.Equal(t, "launch", slug)
}
