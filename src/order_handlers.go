package main

import (
	"errors"
	"log"
	"net/http"

	"tbs/src/common"
	"tbs/src/config"
	"tbs/src/types"

	"github.com/gin-gonic/gin"
)

// respondAppError maps domain errors onto the wire shape
// {"error": message, "code": cause}.
func respondAppError(ctx *gin.Context, err error) {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		ctx.JSON(appErr.Status, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong", "code": types.CODE_SERVER_ERROR})
}

func orderHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/orders", func(ctx *gin.Context) {
			var body types.CreateOrderRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": types.CODE_BAD_REQUEST})
				return
			}
			userId := ctx.GetUint("id")
			cfg := config.GetAppConfig()
			action, err := common.CreateOrder(ctx.Request.Context(), cfg, &body, userId)
			if err != nil {
				log.Printf("Error on CreateOrder: %s\n", err.Error())
				respondAppError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": action})
		}).
		GET("/orders/:id", func(ctx *gin.Context) {
			var params types.OrderRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			cfg := config.GetAppConfig()
			order, err := common.GetOrder(cfg, params.ID, userId)
			if err != nil {
				respondAppError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": order})
		}).
		GET("/orders/:id/payment", func(ctx *gin.Context) {
			var params types.OrderRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			cfg := config.GetAppConfig()
			action, err := common.GetPaymentAction(ctx.Request.Context(), cfg, params.ID)
			if err != nil {
				respondAppError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": action})
		})
	return g
}
