package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayorahman/reimburse-bbm-api/internal/middleware"
	"github.com/ayorahman/reimburse-bbm-api/internal/modules/reimburse/dto"
	reimburseService "github.com/ayorahman/reimburse-bbm-api/internal/modules/reimburse/service"
	"github.com/ayorahman/reimburse-bbm-api/pkg/apperror"
	"github.com/ayorahman/reimburse-bbm-api/pkg/response"
)

type ReimburseHandler struct {
	service reimburseService.ReimburseService
}

func NewReimburseHandler(service reimburseService.ReimburseService) *ReimburseHandler {
	return &ReimburseHandler{service: service}
}

func (h *ReimburseHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, apperror.Unauthorized("Token tidak valid atau telah expired."))
		return
	}

	input := dto.CreateReimburseInput{
		HargaBbm:          c.PostForm("harga_bbm"),
		SpedometerSebelum: c.PostForm("spedometer_sebelum"),
		SpedometerSetelah: c.PostForm("spedometer_setelah"),
		JenisBbm:          c.PostForm("jenis_bbm"),
		HargaPerLiter:     c.PostForm("harga_per_liter"),
		JumlahLiterBbm:    c.PostForm("jumlah_liter_bbm"),
	}

	fileHeader, err := c.FormFile("struk_pembelian")
	if err == nil {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			response.Error(c, fmt.Errorf("gagal membaca file struk: %w", openErr))
			return
		}
		defer file.Close()

		input.Receipt = &dto.ReceiptFile{
			Reader:      file,
			FileName:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
		}
	}

	res, err := h.service.Create(c.Request.Context(), user.Account.ID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Reimburse berhasil dibuat.", res)
}

func (h *ReimburseHandler) GetLimit(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, apperror.Unauthorized("Token tidak valid atau telah expired."))
		return
	}

	res, err := h.service.GetUserLimit(c.Request.Context(), user.Account.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Data limit berhasil diambil.", res)
}

func (h *ReimburseHandler) GetHistory(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Error(c, apperror.Unauthorized("Token tidak valid atau telah expired."))
		return
	}

	filter := c.Query("filter")
	items, summary, err := h.service.GetHistory(c.Request.Context(), user.Account.ID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessExtra(c, http.StatusOK,
		listMessage("History reimburse berhasil diambil", filter),
		items,
		gin.H{"summary": summary},
	)
}

func (h *ReimburseHandler) GetAll(c *gin.Context) {
	filter := c.Query("filter")
	items, err := h.service.GetAllForAdmin(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessExtra(c, http.StatusOK,
		listMessage("Data reimburse berhasil diambil", filter),
		items,
		gin.H{"total": len(items)},
	)
}

func listMessage(base, filter string) string {
	if filter == "" {
		return base + "."
	}
	return fmt.Sprintf("%s (filter: %s).", base, filter)
}
