package Trees

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(keys ...string) *Shape {
	return &Shape{Keys: keys, Children: make([]*Shape, len(keys)+1)}
}

func bin(k string, l, r *Shape) *Shape {
	return &Shape{Keys: []string{k}, Children: []*Shape{l, r}}
}

func TestShape_Flatten(t *testing.T) {
	s := &Shape{
		Keys:     []string{"3", "6"},
		Children: []*Shape{leaf("1", "2"), leaf("4", "5"), leaf("7")},
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7"}, s.Flatten())
	assert.Equal(t, []string{"1", "2", "3"}, bin("2", bin("1", nil, nil), bin("3", nil, nil)).Flatten())
	assert.Empty(t, (*Shape)(nil).Flatten())
}

func TestShape_Levels(t *testing.T) {
	s := bin("4", bin("2", nil, bin("3", nil, nil)), bin("6", nil, nil))
	lv := s.Levels()
	require.Len(t, lv, 3)
	assert.Len(t, lv[0], 1)
	assert.Len(t, lv[1], 2)
	assert.Equal(t, []string{"3"}, lv[2][0].Keys)
	assert.Nil(t, (*Shape)(nil).Levels())
}

func TestShape_Sum64(t *testing.T) {
	a := bin("2", bin("1", nil, nil), nil)
	b := bin("2", nil, bin("1", nil, nil))
	assert.NotEqual(t, a.Sum64(), b.Sum64(), "child slot matters")
	c := bin("2", bin("1", nil, nil), nil)
	c.Children[0].Selected = true
	assert.Equal(t, a.Sum64(), c.Sum64(), "selection doesn't matter")
	c.Tint = Black
	assert.NotEqual(t, a.Sum64(), c.Sum64(), "tint matters")
	// keys are length prefixed, so regrouping them changes the sum.
	assert.NotEqual(t, leaf("12", "3").Sum64(), leaf("1", "23").Sum64())
	assert.NotEqual(t, (*Shape)(nil).Sum64(), leaf().Sum64())
}

func TestShape_String(t *testing.T) {
	s := bin("2", bin("1", nil, nil), nil)
	s.Tint = Black
	s.Children[0].Tint = Red
	s.Children[0].Selected = true
	assert.Equal(t, "[2] black\n  [1] red*\n  -\n", s.String())
	assert.Equal(t, "[1 2]\n", leaf("1", "2").String())
	assert.Equal(t, "(empty)\n", (*Shape)(nil).String())
}

func TestShape_JSON(t *testing.T) {
	s := bin("2", nil, nil)
	s.Tint = Red
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"keys":["2"],"tint":"red","children":[null,null]}`, string(b))
	b, err = json.Marshal(leaf("1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"keys":["1"],"children":[null,null]}`, string(b))
}

func TestDebugging(t *testing.T) {
	assert.False(t, Debugging())
	assert.Equal(t, "plain", Plain.String())
}
