package modeexpr

import (
	"errors"
	"testing"

	"github.com/Fuonder/dagfs.git/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSymbolic(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want Expression
	}{
		{
			name: "NoWhoMeansAll",
			spec: "+x",
			want: Expression{{Who: WhoAll, Op: OpAdd, Perm: PermExec}},
		},
		{
			name: "MultiWho",
			spec: "ug-rw",
			want: Expression{{Who: WhoUser | WhoGroup, Op: OpRemove, Perm: PermRead | PermWrite}},
		},
		{
			name: "RepeatedCharacters",
			spec: "uu=rr",
			want: Expression{{Who: WhoUser, Op: OpSet, Perm: PermRead}},
		},
		{
			name: "TwoClauses",
			spec: "g+x,u+w",
			want: Expression{
				{Who: WhoGroup, Op: OpAdd, Perm: PermExec},
				{Who: WhoUser, Op: OpAdd, Perm: PermWrite},
			},
		},
		{
			name: "SpecialTokens",
			spec: "a+Xst",
			want: Expression{{Who: WhoAll, Op: OpAdd, Perm: PermCondExec | PermSetID | PermSticky}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.spec)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		spec string
		want models.Mode
	}{
		{"0", 0},
		{"7", 07},
		{"755", 0755},
		{"0755", 0755},
		{"4755", 04755},
		{"04755", 04755},
		{"7777", 07777},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.True(t, got[0].IsAbsolute())
			assert.Equal(t, tt.want, got.Apply(0, false))
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		badClause string
		index     int
	}{
		{name: "Empty", spec: ""},
		{name: "EmptyClause", spec: "u+x,", badClause: "", index: 1},
		{name: "MissingOperator", spec: "ug", badClause: "ug"},
		{name: "MissingPermissions", spec: "u+", badClause: "u+"},
		{name: "OperatorOnly", spec: "=", badClause: "="},
		{name: "UnknownWho", spec: "z+x", badClause: "z+x"},
		{name: "UnknownPermission", spec: "u+q", badClause: "u+q"},
		{name: "TwoOperators", spec: "g+x,u+x-w", badClause: "u+x-w", index: 1},
		{name: "WhoAfterOperator", spec: "+u", badClause: "+u"},
		{name: "NotOctal", spec: "0899", badClause: "0899"},
		{name: "TooManyDigits", spec: "17777", badClause: "17777"},
		{name: "Whitespace", spec: "u+x, g+w", badClause: " g+w", index: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.spec)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrMalformedModeExpression)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.badClause, pe.Clause)
			assert.Equal(t, tt.index, pe.Index)
			assert.NotEmpty(t, pe.Reason)
		})
	}
}

func TestFromMode(t *testing.T) {
	expr, err := FromMode(0644)
	require.NoError(t, err)
	assert.Equal(t, models.Mode(0644), expr.Apply(04777, true))

	_, err = FromMode(010000)
	require.ErrorIs(t, err, ErrMalformedModeExpression)
}

func TestExpressionString(t *testing.T) {
	assert.Equal(t, "g+x,u+w", MustParse("g+x,u+w").String())
	assert.Equal(t, "a+X", MustParse("+X").String())
	assert.Equal(t, "ug=rwxs", MustParse("gu=srwx").String())
	assert.Equal(t, "0755", MustParse("755").String())
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("u+q") })
}
