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
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/linkmint/linkmint"
	"github.com/linkmint/linkmint/api/middleware"
	"github.com/linkmint/linkmint/config"
)

type Api struct {
	linkmint *linkmint.Linkmint
	router   *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	router.POST("/affiliates", a.CreateAffiliate)
	router.GET("/affiliates", a.GetAffiliatesByStore)
	router.GET("/affiliates/:id", a.GetAffiliate)
	router.POST("/affiliates/:id/approve", a.ApproveAffiliate)
	router.PUT("/affiliates/:id/status", a.UpdateAffiliateStatus)
	router.PUT("/affiliates/:id/rate", a.UpdateCommissionRate)
	router.GET("/affiliates/:id/commissions", a.GetCommissionsByAffiliate)
	router.GET("/affiliates/:id/links", a.GetTrackingLinksByAffiliate)

	router.POST("/links", a.CreateTrackingLink)
	router.GET("/links/:code", a.GetTrackingLink)

	router.POST("/webhooks/orders", a.ReceiveOrderEvent)
	router.GET("/orders/:order_id/commission", a.GetCommissionByOrder)

	router.POST("/payouts", a.RunPayoutBatch)

	return a.router
}

func NewAPI(lm *linkmint.Linkmint) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(otelgin.Middleware("linkmint"))
	r.Use(middleware.RateLimitMiddleware(conf))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	// The redirect route stays outside auth: referral traffic carries
	// no credentials.
	a := &Api{linkmint: lm, router: r}
	r.GET("/r/:code", a.RedirectClick)

	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	return a
}
