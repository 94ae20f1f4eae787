package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBranchPartitions(t *testing.T) {
	p, err := NewBranchPartitions(3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, p.IDs())
	assert.True(t, p.Contains(3))
	assert.False(t, p.Contains(0))
	assert.False(t, p.Contains(4))

	table, err := p.Table(2)
	require.NoError(t, err)
	assert.Equal(t, `"alm2"`, table)

	_, err = p.Table(9)
	assert.ErrorIs(t, err, ErrUnknownBranchPartition)

	_, err = NewBranchPartitions(0)
	assert.Error(t, err)
}

func TestBranchPartitions_IDsEsCopia(t *testing.T) {
	p, err := NewBranchPartitions(2)
	require.NoError(t, err)
	ids := p.IDs()
	ids[0] = 99
	assert.Equal(t, []int{1, 2}, p.IDs())
}

func TestLikePattern(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"cuaderno", "%cuaderno%"},
		{" 50% ", `%50\%%`},
		{"a_b", `%a\_b%`},
		{`c:\x`, `%c:\\x%`},
		{"", "%%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, likePattern(tt.in), tt.in)
	}
}
