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

	"github.com/linkmint/linkmint/model"
)

// ScoreApplication rates an affiliate application from 0 to 100. It is
// a stateless heuristic: the score is advisory material for the
// reviewer and never gates creation or approval.
func ScoreApplication(app *model.AffiliateApplication) int {
	score := 0

	if app.Website != "" {
		score += 20
		if strings.HasPrefix(app.Website, "https://") {
			score += 5
		}
	}

	switch {
	case app.SocialFollowers >= 100000:
		score += 40
	case app.SocialFollowers >= 10000:
		score += 30
	case app.SocialFollowers >= 1000:
		score += 20
	case app.SocialFollowers > 0:
		score += 10
	}

	if app.Niche != "" {
		score += 15
	}

	pitch := strings.TrimSpace(app.Pitch)
	switch {
	case len(pitch) >= 200:
		score += 20
	case len(pitch) >= 50:
		score += 15
	case len(pitch) > 0:
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}
