package handler

import (
	"profile/internal/core"
	"profile/internal/dto"
	"profile/internal/pkg/response"
	"profile/internal/service"
	"profile/internal/telemetry"
	"profile/utils/validate"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	trace          *telemetry.Trace
	profileService *service.ProfileService
}

func NewProfileHandler(trace *telemetry.Trace, profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{trace: trace, profileService: profileService}
}

// Me 目前用戶
// @Summary 取得目前用戶資訊
// @Tags Profile
// @Security UserID
// @Produce json
// @Success 200 {object} dto.UserResponseDto
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /profile/me [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	user, err := h.profileService.GetUser(ctx, c.GetString(core.ContextUserIDKey))
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, user)
}

// Discount 優惠狀態
// @Summary 取得目前用戶的優惠狀態
// @Tags Profile
// @Security UserID
// @Produce json
// @Param recommend query string false "推薦碼"
// @Success 200 {object} dto.DiscountDto
// @Failure 404 {object} response.Response
// @Router /profile/me/discount [get]
func (h *ProfileHandler) Discount(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	status, err := h.profileService.GetDiscountStatus(ctx, c.GetString(core.ContextUserIDKey), c.Query("recommend"))
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, status)
}

// SetInsured 綁定互助會員
// @Summary 綁定互助會員
// @Description 已被已驗證用戶綁定時回 409；等待 processor 逾時回 504
// @Tags Profile
// @Security UserID
// @Accept json
// @Produce json
// @Param body body dto.SetInsuredDto true "互助會員"
// @Success 200 {object} dto.InsuredDto
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 504 {object} response.Response
// @Router /profile/me/insured [put]
func (h *ProfileHandler) SetInsured(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	var req dto.SetInsuredDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	bound, err := h.profileService.SetInsured(ctx, c.GetString(core.ContextUserIDKey), req.Insured)
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, bound)
}

// Invite 邀請人
// @Summary 依邀請碼取得邀請人資訊
// @Tags Profile
// @Produce json
// @Param key path string true "邀請碼"
// @Success 200 {object} dto.UserResponseDto
// @Failure 404 {object} response.Response
// @Router /profile/invites/{key} [get]
func (h *ProfileHandler) Invite(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	user, err := h.profileService.GetUserForInvite(ctx, c.Param("key"))
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, user)
}

// List 用戶列表
// @Summary 依 refresh 建立的順序分頁取得用戶
// @Tags Profile
// @Produce json
// @Param start query int false "起始位置"
// @Param limit query int false "筆數，預設 20"
// @Success 200 {object} dto.UserListDto
// @Failure 400 {object} response.Response
// @Router /profile/users [get]
func (h *ProfileHandler) List(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	var query dto.ListUsersQuery
	if cause, respErr := validate.BindQuery(c, &query); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	users, err := h.profileService.ListUsers(ctx, query.Start, query.Limit)
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, users)
}

// Batch 批次取得用戶
// @Summary 依 user_ids 批次取得用戶，回傳 id -> user
// @Tags Profile
// @Accept json
// @Produce json
// @Param body body dto.BatchUsersDto true "user ids"
// @Success 200 {object} map[string]dto.UserResponseDto
// @Failure 400 {object} response.Response
// @Router /profile/users/batch [post]
func (h *ProfileHandler) Batch(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	var req dto.BatchUsersDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	users, err := h.profileService.GetUsersByIDs(ctx, req.UserIDs)
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, users)
}

// Get 取得用戶
// @Summary 取得單一用戶資訊
// @Tags Profile
// @Produce json
// @Param userID path string true "User ID (uuid)"
// @Success 200 {object} dto.UserResponseDto
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /profile/users/{userID} [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	uid, cause, respErr := validate.ParseUUID(c, "userID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	user, err := h.profileService.GetUser(ctx, uid)
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, user)
}

// OpenID 取得用戶 openid
// @Summary 取得用戶綁定的 openid，未綁定為空字串
// @Tags Profile
// @Produce json
// @Param userID path string true "User ID (uuid)"
// @Success 200 {object} dto.OpenIDDto
// @Failure 400 {object} response.Response
// @Router /profile/users/{userID}/openid [get]
func (h *ProfileHandler) OpenID(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	uid, cause, respErr := validate.ParseUUID(c, "userID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	openID, err := h.profileService.GetUserOpenID(ctx, uid)
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, openID)
}

// SetTenderOpened 開關投標
// @Summary 設定用戶是否開放投標
// @Tags Profile
// @Accept json
// @Produce json
// @Param userID path string true "User ID (uuid)"
// @Param body body dto.SetTenderOpenedDto true "開關"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 504 {object} response.Response
// @Router /profile/users/{userID}/tender-opened [put]
func (h *ProfileHandler) SetTenderOpened(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	uid, cause, respErr := validate.ParseUUID(c, "userID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	var req dto.SetTenderOpenedDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	err := h.profileService.SetTenderOpened(ctx, uid, *req.Opened)
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "tender_opened updated"})
}

// Refresh 重建投影
// @Summary 重建 redis 投影，uid 為空時全量重建
// @Tags Profile
// @Accept json
// @Produce json
// @Param body body dto.RefreshDto false "uid"
// @Success 200 {object} map[string]string
// @Failure 504 {object} response.Response
// @Router /profile/refresh [post]
func (h *ProfileHandler) Refresh(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	var req dto.RefreshDto
	if c.Request.ContentLength > 0 {
		if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
			end(cause)
			response.AbortWithError(c, respErr)
			return
		}
	}

	err := h.profileService.Refresh(ctx, req.UID)
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "refresh completed"})
}
