package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteLink(t *testing.T) {
	tests := []struct {
		name      string
		link      string
		newDomain string
		want      string
	}{
		{
			name:      "path preserved",
			link:      "https://old.example/a/b",
			newDomain: "https://new.example",
			want:      "https://new.example/a/b",
		},
		{
			name:      "query preserved",
			link:      "https://old.example/a?x=1",
			newDomain: "https://new.example",
			want:      "https://new.example/a?x=1",
		},
		{
			name:      "domain-only link collapses to bare slash",
			link:      "https://old.example",
			newDomain: "https://new.example",
			want:      "https://new.example/",
		},
		{
			name:      "trailing slashes stripped from new domain",
			link:      "https://old.example/a",
			newDomain: "https://new.example//",
			want:      "https://new.example/a",
		},
		{
			name:      "empty path segment",
			link:      "https://old.example/",
			newDomain: "https://new.example",
			want:      "https://new.example/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteLink(tt.link, tt.newDomain))
		})
	}
}
