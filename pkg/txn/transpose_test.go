package txn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luxfi/coconut/pkg/txn"
)

func TestTransposeFlipsRows(t *testing.T) {
	in := [][]int{{1, 2, 3}, {4, 5, 6}}
	want := [][]int{{1, 4}, {2, 5}, {3, 6}}
	assert.Equal(t, want, txn.Transpose(in))
}

func TestTransposeTwiceIsIdentity(t *testing.T) {
	in := [][]int{{1, 2, 3}, {4, 5, 6}}
	assert.Equal(t, in, txn.Transpose(txn.Transpose(in)))
}

func TestTransposeEmptyIsNil(t *testing.T) {
	assert.Nil(t, txn.Transpose[int](nil))
}
