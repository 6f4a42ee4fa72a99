package gateway

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/gin-gonic/gin"

	"github.com/mmynk/duitraya/pkg/api"
)

func (g *Gateway) register(c *gin.Context) {
	var in api.RegisterRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := g.svc.Auth.Register(c.Request.Context(), connect.NewRequest(&in))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.Msg)
}

func (g *Gateway) login(c *gin.Context) {
	var in api.LoginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := g.svc.Auth.Login(c.Request.Context(), connect.NewRequest(&in))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Msg)
}

func (g *Gateway) logout(c *gin.Context) {
	if _, err := g.svc.Auth.Logout(c.Request.Context(), connect.NewRequest(&api.LogoutRequest{})); err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (g *Gateway) me(c *gin.Context) {
	resp, err := g.svc.Auth.GetCurrentUser(c.Request.Context(), connect.NewRequest(&api.GetCurrentUserRequest{}))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Msg.User)
}

func (g *Gateway) listReceivers(c *gin.Context) {
	year, err := yearQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	resp, err := g.svc.Receivers.ListReceivers(c.Request.Context(), connect.NewRequest(&api.ListReceiversRequest{Year: year}))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Msg.Receivers)
}

func (g *Gateway) createReceiver(c *gin.Context) {
	var in api.CreateReceiverRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := g.svc.Receivers.CreateReceiver(c.Request.Context(), connect.NewRequest(&in))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.Msg)
}

func (g *Gateway) getReceiver(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	resp, err := g.svc.Receivers.GetReceiver(c.Request.Context(), connect.NewRequest(&api.GetReceiverRequest{ID: id}))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Msg.Receiver)
}

func (g *Gateway) updateReceiver(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	var in api.UpdateReceiverRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	// The path wins over any id in the body.
	in.ID = id

	resp, err := g.svc.Receivers.UpdateReceiver(c.Request.Context(), connect.NewRequest(&in))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Msg)
}

func (g *Gateway) deleteReceiver(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	if _, err := g.svc.Receivers.DeleteReceiver(c.Request.Context(), connect.NewRequest(&api.DeleteReceiverRequest{ID: id})); err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}

func (g *Gateway) listYears(c *gin.Context) {
	resp, err := g.svc.Receivers.ListYears(c.Request.Context(), connect.NewRequest(&api.ListYearsRequest{}))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Msg.Years)
}

func (g *Gateway) summary(c *gin.Context) {
	year, err := yearQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	resp, err := g.svc.Summary.GetSummary(c.Request.Context(), connect.NewRequest(&api.GetSummaryRequest{Year: year}))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Msg)
}

func (g *Gateway) comparison(c *gin.Context) {
	resp, err := g.svc.Summary.GetYearlyComparison(c.Request.Context(), connect.NewRequest(&api.GetYearlyComparisonRequest{}))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Msg.Years)
}

func (g *Gateway) listUsers(c *gin.Context) {
	resp, err := g.svc.Admin.ListUsers(c.Request.Context(), connect.NewRequest(&api.ListUsersRequest{}))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Msg.Users)
}

func (g *Gateway) deleteUser(c *gin.Context) {
	req := connect.NewRequest(&api.DeleteUserRequest{UserID: c.Param("id")})
	if _, err := g.svc.Admin.DeleteUser(c.Request.Context(), req); err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func (g *Gateway) resetPassword(c *gin.Context) {
	var in struct {
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	req := connect.NewRequest(&api.ResetPasswordRequest{UserID: c.Param("id"), NewPassword: in.NewPassword})
	if _, err := g.svc.Admin.ResetPassword(c.Request.Context(), req); err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset"})
}
