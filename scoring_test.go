/*
Copyright 2024 Linkmint Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package linkmint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linkmint/linkmint/model"
)

func TestScoreApplication(t *testing.T) {
	tests := []struct {
		name string
		app  model.AffiliateApplication
		want int
	}{
		{
			name: "empty application scores zero",
			app:  model.AffiliateApplication{},
			want: 0,
		},
		{
			name: "website only",
			app:  model.AffiliateApplication{Website: "http://blog.example"},
			want: 20,
		},
		{
			name: "https website",
			app:  model.AffiliateApplication{Website: "https://blog.example"},
			want: 25,
		},
		{
			name: "strong application caps at 100",
			app: model.AffiliateApplication{
				Website:         "https://blog.example",
				SocialFollowers: 500000,
				Niche:           "outdoor gear",
				Pitch:           strings.Repeat("I review hiking equipment. ", 10),
			},
			want: 100,
		},
		{
			name: "mid-tier following",
			app: model.AffiliateApplication{
				SocialFollowers: 12000,
				Niche:           "cooking",
			},
			want: 45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreApplication(&tt.app))
		})
	}
}

func TestScoreApplicationIsDeterministic(t *testing.T) {
	app := &model.AffiliateApplication{Website: "https://x.example", SocialFollowers: 5000}
	assert.Equal(t, ScoreApplication(app), ScoreApplication(app))
}
