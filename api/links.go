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
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linkmint/linkmint"
	model2 "github.com/linkmint/linkmint/api/model"
)

func (a Api) CreateTrackingLink(c *gin.Context) {
	var newLink model2.CreateTrackingLink
	if err := c.ShouldBindJSON(&newLink); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := newLink.ValidateCreateTrackingLink(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.linkmint.IssueTrackingLink(c.Request.Context(), newLink.AffiliateID, newLink.OriginalURL, newLink.ToCampaign())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetTrackingLink(c *gin.Context) {
	code, passed := c.Params.Get("code")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required. pass code in the route /:code"})
		return
	}

	resp, err := a.linkmint.GetTrackingLinkByCode(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetTrackingLinksByAffiliate(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	limit, offset := paginationParams(c)
	resp, err := a.linkmint.GetTrackingLinksByAffiliate(c.Request.Context(), id, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RedirectClick records a referral visit and 302s the visitor to the
// destination with attribution parameters attached.
func (a Api) RedirectClick(c *gin.Context) {
	code, passed := c.Params.Get("code")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required. pass code in the route /:code"})
		return
	}

	target, err := a.linkmint.RecordClick(c.Request.Context(), code, linkmint.ClickMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, target.URL)
}
