package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenClasses(t *testing.T) {
	tests := []struct {
		tok        TokenType
		unary      bool
		arith      bool
		comparison bool
		str        string
	}{
		{NOT, true, false, false, "!"},
		{NEG, true, false, false, "neg"},
		{ADD, false, true, false, "+"},
		{AND_NOT, false, true, false, "&^"},
		{EQL, false, false, true, "=="},
		{GEQ, false, false, true, ">="},
		{ILLEGAL, false, false, false, "ILLEGAL"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.unary, tt.tok.IsUnary())
			assert.Equal(t, tt.arith, tt.tok.IsArithmetic())
			assert.Equal(t, tt.comparison, tt.tok.IsComparison())
			assert.Equal(t, tt.str, tt.tok.String())
		})
	}
	assert.Equal(t, "token(999)", TokenType(999).String())
}

func TestRangeString(t *testing.T) {
	var nilRange *Range
	assert.Equal(t, "<no range>", nilRange.String())
	assert.Equal(t, "main.src:3:1-3:9", NewRange("main.src", 3, 1, 9).String())
	assert.Equal(t, "1:2-4:5", (&Range{Start: Pos{1, 2}, End: Pos{4, 5}}).String())
}
