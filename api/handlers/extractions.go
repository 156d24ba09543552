package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/customeros/mailharvest/config"
	"github.com/customeros/mailharvest/dto"
	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/enum"
	harvesterrors "github.com/customeros/mailharvest/internal/errors"
	"github.com/customeros/mailharvest/internal/tracing"
)

// ExtractionRequestBody is the REST shape of an extraction trigger. Omitted
// fields fall back to the configured defaults.
type ExtractionRequestBody struct {
	Folders       []string `json:"folders"`
	LookbackDays  *int     `json:"lookbackDays"`
	Keyword       *string  `json:"keyword"`
	Providers     *string  `json:"providers"`
	SaveFolder    string   `json:"saveFolder"`
	NamingFormat  string   `json:"namingFormat"`
	CustomSuffix  string   `json:"customSuffix"`
	Mode          string   `json:"mode"`
	Convert       bool     `json:"convert"`
	ConvertFormat string   `json:"convertFormat"`
}

// TriggerExtraction starts a synchronous extraction run
func TriggerExtraction(extractorService interfaces.ExtractorService, extractionConfig *config.ExtractionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "TriggerExtraction", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		var body ExtractionRequestBody
		err := c.ShouldBindJSON(&body)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		request := buildRequest(body, extractionConfig)

		result, err := extractorService.Extract(ctx, request)
		if err != nil {
			tracing.TraceErr(span, err)
			switch {
			case errors.Is(err, harvesterrors.ErrSaveFolderMissing),
				errors.Is(err, harvesterrors.ErrNoFoldersSelected):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, harvesterrors.ErrMailClientUnavailable):
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusCreated, result)
	}
}

// ListExtractionRuns returns recent runs, newest first
func ListExtractionRuns(runRepository interfaces.ExtractionRunRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "ListExtractionRuns", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

		runs, err := runRepository.List(ctx, limit)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"runs": runs})
	}
}

// GetLatestExtractionRun returns the most recently completed run
func GetLatestExtractionRun(runRepository interfaces.ExtractionRunRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "GetLatestExtractionRun", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		run, err := runRepository.GetLatest(ctx)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if run == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no completed runs"})
			return
		}

		c.JSON(http.StatusOK, run)
	}
}

// ListFolders enumerates the selectable folders on the mail server
func ListFolders(mailClient interfaces.MailClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "ListFolders", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		if err := mailClient.Connect(ctx); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		defer mailClient.Close()

		folders, err := mailClient.ListFolders(ctx)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"folders": folders})
	}
}

func buildRequest(body ExtractionRequestBody, defaults *config.ExtractionConfig) dto.ExtractionRequest {
	request := dto.ExtractionRequest{
		Folders:           body.Folders,
		LookbackDays:      defaults.LookbackDays,
		Keyword:           defaults.Keyword,
		ProvidersText:     defaults.ProvidersText,
		SaveFolder:        body.SaveFolder,
		NamingFormat:      enum.DecodeNamingFormat(body.NamingFormat),
		CustomSuffix:      body.CustomSuffix,
		ExtractionMode:    enum.DecodeExtractionMode(body.Mode),
		ConversionEnabled: body.Convert,
		ConvertFormat:     body.ConvertFormat,
	}

	if len(request.Folders) == 0 {
		request.Folders = defaults.Folders
	}
	if request.SaveFolder == "" {
		request.SaveFolder = defaults.SaveFolder
	}
	if body.LookbackDays != nil {
		request.LookbackDays = *body.LookbackDays
	}
	if body.Keyword != nil {
		request.Keyword = *body.Keyword
	}
	if body.Providers != nil {
		request.ProvidersText = *body.Providers
	}
	if body.NamingFormat == "" {
		request.NamingFormat = enum.DecodeNamingFormat(defaults.NamingFormat)
	}
	if body.Mode == "" {
		request.ExtractionMode = enum.DecodeExtractionMode(defaults.ExtractionMode)
	}
	if body.CustomSuffix == "" {
		request.CustomSuffix = defaults.CustomSuffix
	}

	return request
}
