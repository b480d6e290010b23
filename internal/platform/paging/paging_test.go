package paging

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestResult_EnvelopeKeepsOnlyContent(t *testing.T) {
	body := `{"content":[{"id":"1","name":"Rex"}],"totalPages":1,"totalElements":1,"number":0,"size":10,"first":true,"last":true}`

	var r Result[item]
	require.NoError(t, json.Unmarshal([]byte(body), &r))

	assert.Equal(t, KindList, r.Kind)
	assert.Equal(t, []item{{ID: "1", Name: "Rex"}}, r.List)
	require.NotNil(t, r.Page)
	assert.Equal(t, 1, r.Page.TotalElements)
	assert.True(t, r.Page.Last)
}

func TestResult_BareArray(t *testing.T) {
	var r Result[item]
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"2"}]`), &r))
	assert.Equal(t, KindList, r.Kind)
	assert.Nil(t, r.Page)
	assert.Len(t, r.List, 1)
}

func TestResult_SingleEntityUnchanged(t *testing.T) {
	var r Result[item]
	require.NoError(t, json.Unmarshal([]byte(`{"id":"9","name":"Mia"}`), &r))
	assert.Equal(t, KindSingle, r.Kind)
	assert.Equal(t, item{ID: "9", Name: "Mia"}, r.Single)
	assert.Empty(t, r.List)
}

func TestResult_NullIsEmpty(t *testing.T) {
	r := ListOf([]item{{ID: "x"}})
	require.NoError(t, json.Unmarshal([]byte(`null`), &r))
	assert.Equal(t, KindEmpty, r.Kind)
}

func TestNewPage(t *testing.T) {
	all := []item{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	p := NewPage(all, 1, 2)
	assert.Equal(t, []item{{ID: "3"}}, p.Content)
	assert.Equal(t, 2, p.TotalPages)
	assert.Equal(t, 3, p.TotalElements)
	assert.False(t, p.First)
	assert.True(t, p.Last)

	whole := NewPage(all, 0, 0)
	assert.Len(t, whole.Content, 3)
	assert.True(t, whole.First && whole.Last)

	empty := NewPage([]item{}, 0, 10)
	assert.Empty(t, empty.Content)
	assert.Equal(t, 1, empty.TotalPages)
}
