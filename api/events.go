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

	model2 "github.com/linkmint/linkmint/api/model"
)

// ReceiveOrderEvent ingests an order-settled webhook. Organic orders
// (no tracking metadata) still return 200 so the sender does not
// retry them forever.
func (a Api) ReceiveOrderEvent(c *gin.Context) {
	var webhook model2.OrderWebhook
	if err := c.ShouldBindJSON(&webhook); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := webhook.ValidateOrderWebhook(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	event, err := webhook.ToOrderEvent()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	entry, err := a.linkmint.AttributeConversion(c.Request.Context(), event)
	if err != nil {
		respondError(c, err)
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"order_id": event.OrderID, "attributed": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": event.OrderID, "attributed": true, "commission": entry})
}

func (a Api) GetCommissionByOrder(c *gin.Context) {
	orderID, passed := c.Params.Get("order_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_id is required. pass order_id in the route /:order_id"})
		return
	}

	resp, err := a.linkmint.GetCommissionByOrderID(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
