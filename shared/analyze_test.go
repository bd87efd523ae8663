package shared

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/tern/value"
)

func TestAnalyzeCleanGraph(t *testing.T) {
	lst := value.NewListOf(
		value.NewInt(1),
		value.NewStringValue(value.NewString("fine")),
		value.NewArrayValue(value.NewListOf(value.NewFloat(2.5))),
	)
	analysis, err := Analyze(value.NewArrayValue(lst))
	require.NoError(t, err)
	require.False(t, analysis.SharedStructure)
}

func TestAnalyzeSharedStructure(t *testing.T) {
	inner := value.NewListOf(value.NewInt(1))
	iv := value.NewArrayValue(inner)
	outer := value.NewList()
	outer.Append(iv)
	outer.Append(iv)

	analysis, err := Analyze(value.NewArrayValue(outer))
	require.NoError(t, err)
	require.True(t, analysis.SharedStructure)
}

func TestAnalyzeSharedString(t *testing.T) {
	s := value.NewStringValue(value.NewString("twice"))
	lst := value.NewList()
	lst.Append(s)
	lst.Append(s)

	analysis, err := Analyze(value.NewArrayValue(lst))
	require.NoError(t, err)
	require.True(t, analysis.SharedStructure)
}

func TestAnalyzeRejectsUnshareableKinds(t *testing.T) {
	lst := value.NewListOf(
		value.Value{Kind: value.KindObject},
		value.Value{Kind: value.KindResource},
		value.Value{Kind: value.KindClosure},
		value.Value{Kind: value.KindBoundMethod},
	)
	_, err := Analyze(value.NewArrayValue(lst))
	require.Error(t, err)

	// Every offending node is reported, not just the first.
	require.ErrorContains(t, err, "cannot share object value")
	require.ErrorContains(t, err, "cannot share resource value")
	require.ErrorContains(t, err, "cannot share closure value")
	require.ErrorContains(t, err, "cannot share bound method value")
}

func TestAnalyzeDetectsCycle(t *testing.T) {
	lst := value.NewList()
	lst.Append(value.NewArrayValue(lst))

	_, err := Analyze(value.NewArrayValue(lst))
	require.Error(t, err)
	require.ErrorContains(t, err, "cannot share cyclic value")
}

func TestAnalyzeScalars(t *testing.T) {
	for _, v := range []value.Value{
		value.Null(), value.NewBool(true), value.NewInt(3), value.NewFloat(0.5),
		value.NewFuncValue(value.NewFunc("f", true)),
		value.NewClassValue(value.NewClass("C", true)),
	} {
		analysis, err := Analyze(v)
		require.NoError(t, err)
		require.False(t, analysis.SharedStructure)
	}
}
