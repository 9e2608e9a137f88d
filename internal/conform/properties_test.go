package conform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestCheckProperties(t *testing.T) {
	tests := []struct {
		name  string
		props Properties
		json  string
		ok    bool
	}{
		{"absent and missing", Properties{"foo": Absent()}, `{"bar":1}`, true},
		{"absent but set", Properties{"foo": Absent()}, `{"foo":1}`, false},
		{"absent and null", Properties{"foo": Absent()}, `{"foo":null}`, true},
		{"same array", Properties{"tags": Equal([]int{1, 2})}, `{"tags":[1,2]}`, true},
		{"reordered array", Properties{"tags": Equal([]int{1, 2})}, `{"tags":[2,1]}`, false},
		{"shorter array", Properties{"tags": Equal([]int{1, 2})}, `{"tags":[1]}`, false},
		{"array of any", Properties{"tags": Equal([]any{"a", 1.5, true})}, `{"tags":["a",1.5,true]}`, true},
		{"scalar instead of array", Properties{"tags": Equal([]int{1})}, `{"tags":1}`, false},
		{"int equality", Properties{"number": Equal(2)}, `{"number":2}`, true},
		{"int mismatch", Properties{"number": Equal(2)}, `{"number":3}`, false},
		{"number as string", Properties{"number": Equal(2)}, `{"number":"2"}`, false},
		{"string equality", Properties{"currency": Equal("beta_brousouf")}, `{"currency":"beta_brousouf"}`, true},
		{"bool equality", Properties{"ok": Equal(true)}, `{"ok":true}`, true},
		{"explicit null", Properties{"hash": Equal(nil)}, `{"hash":null}`, true},
		{"explicit null but missing", Properties{"hash": Equal(nil)}, `{}`, false},
		{"missing key", Properties{"number": Equal(2)}, `{}`, false},
		{"present with any value", Properties{"raw": Present()}, `{"raw":null}`, true},
		{"present but missing", Properties{"raw": Present()}, `{}`, false},
		{"no expectations", Properties{}, `[]`, true},
		{"dotted key is literal", Properties{"a.b": Equal(1)}, `{"a.b":1,"a":{"b":2}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckProperties(tt.props, gjson.Parse(tt.json))
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.True(t, IsFailure(err))
			}
		})
	}
}

func TestCheckPropertiesReportsElement(t *testing.T) {
	err := CheckProperties(Properties{"tags": Equal([]int{1, 2})}, gjson.Parse(`{"tags":[1,3]}`))
	assert.EqualError(t, err, "tags[1]: expected 2, got 3")
}
