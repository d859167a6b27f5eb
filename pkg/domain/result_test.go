package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_JSONNestedArrays(t *testing.T) {
	r := Result{Name("Nematoda"), Group(Name("Tardigrada"), Group(Name("Homo"), Name("Pan")))}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `["Nematoda", ["Tardigrada", ["Homo", "Pan"]]]`, string(data))

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r, decoded)
}

func TestResult_JSONRejectsNonStrings(t *testing.T) {
	var r Result
	err := json.Unmarshal([]byte(`["a", 3]`), &r)
	assert.Error(t, err)
}

func TestResult_StringAndFlatten(t *testing.T) {
	r := Result{Name("Nematoda"), Group(Name("Diptera"), Name("Hymenoptera"))}
	assert.Equal(t, "[Nematoda, [Diptera, Hymenoptera]]", r.String())
	assert.Equal(t, []TaxonName{"Nematoda", "Diptera", "Hymenoptera"}, r.Flatten())
}

func TestResult_EmptyGroupEncodesAsArray(t *testing.T) {
	data, err := json.Marshal(Result{Group()})
	require.NoError(t, err)
	assert.JSONEq(t, `[[]]`, string(data))
}
