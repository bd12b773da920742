package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lantern-labs/beacon-backend/internal/resputil"
	"github.com/lantern-labs/beacon-backend/pkg/registrar"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewSignupMgr)
}

type SignupMgr struct {
	name      string
	registrar *registrar.Registrar
}

func NewSignupMgr(conf *RegisterConfig) Manager {
	return &SignupMgr{
		name:      "signup",
		registrar: registrar.NewRegistrar(registrar.NewStore(conf.DB), conf.Config.Signup.Source),
	}
}

func (mgr *SignupMgr) GetName() string { return mgr.name }

func (mgr *SignupMgr) RegisterPublic(g *gin.RouterGroup) {
	g.POST("signup", mgr.Signup)
	g.GET("signups/count", mgr.Count)
}

func (mgr *SignupMgr) RegisterCron(_ *gin.RouterGroup) {}

type (
	SignupReq struct {
		Email string `json:"email" binding:"required"`
	}

	SignupResp struct {
		Success   bool `json:"success"`
		Duplicate bool `json:"duplicate"`
	}

	SignupCountResp struct {
		Total int64 `json:"total"`
	}
)

// Signup godoc
//
//	@Summary		Join the waitlist
//	@Description	Validates the address and records it once; resubmitting the same address is a silent success
//	@Tags			Signup
//	@Accept			json
//	@Produce		json
//	@Param			signup	body		SignupReq	true	"Signup request"
//	@Success		200		{object}	SignupResp	"Created or duplicate"
//	@Failure		400		{object}	resputil.Response[any]	"Invalid email format"
//	@Failure		500		{object}	resputil.Response[any]	"Other errors"
//	@Router			/v1/signup [post]
func (mgr *SignupMgr) Signup(c *gin.Context) {
	var req SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	duplicate, err := mgr.registrar.Register(c.Request.Context(), req.Email)
	if err != nil {
		var vErr *registrar.ValidationError
		if errors.As(err, &vErr) {
			resputil.HTTPError(c, http.StatusBadRequest, vErr.Msg, resputil.InvalidEmailFormat)
			return
		}
		resputil.Error(c, "Failed to record signup", resputil.ServiceError)
		return
	}

	c.JSON(http.StatusOK, SignupResp{Success: true, Duplicate: duplicate})
}

// Count godoc
//
//	@Summary		Waitlist size
//	@Description	Number of recorded signups, for the landing page counter widget
//	@Tags			Signup
//	@Produce		json
//	@Success		200	{object}	resputil.Response[SignupCountResp]	"Signup total"
//	@Failure		500	{object}	resputil.Response[any]	"Other errors"
//	@Router			/v1/signups/count [get]
func (mgr *SignupMgr) Count(c *gin.Context) {
	total, err := mgr.registrar.Count(c.Request.Context())
	if err != nil {
		resputil.Error(c, "Failed to count signups", resputil.ServiceError)
		return
	}
	resputil.Success(c, SignupCountResp{Total: total})
}
