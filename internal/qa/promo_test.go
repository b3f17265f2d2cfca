package qa

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mfenderov/geo-schema/pkg/models"
)

func TestIsPromotional(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Click here to learn", true},
		{"BUY NOW while stocks last", true},
		{"This is a limited time offer", true},
		{"Don't miss out on this", true},
		{"Get a Quote from our team", true},
		{"Contact us today", true},
		{"Subscribers get more", false},
		{"An ordinary answer about orbits.", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPromotional(tt.text))
		})
	}
}

func TestFilterPromotional(t *testing.T) {
	pairs := []models.QAPair{
		{Question: "What is a transit?", Answer: "A planet crossing a point."},
		{Question: "Got a burning question?", Answer: "Ask us."},
		{Question: "How often?", Answer: "Roughly yearly."},
		{Question: "Want more?", Answer: "Download now."},
	}

	filtered := FilterPromotional(pairs)

	assert.Equal(t, []models.QAPair{pairs[0], pairs[2]}, filtered)
	assert.Len(t, pairs, 4, "input must not be modified")
}

func TestFilterPromotional_Empty(t *testing.T) {
	assert.Empty(t, FilterPromotional(nil))
}
