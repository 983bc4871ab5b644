package patients

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/carepulse/internal/platform/i18n"
	"github.com/louisbranch/carepulse/internal/services/intake/form"
	"github.com/louisbranch/carepulse/internal/services/intake/intakegrant"
	apperrors "github.com/louisbranch/carepulse/internal/services/intake/platform/errors"
	"github.com/louisbranch/carepulse/internal/services/intake/platform/httpx"
	"github.com/louisbranch/carepulse/internal/services/intake/platform/requestmeta"
	"github.com/louisbranch/carepulse/internal/services/intake/routepath"
	"github.com/louisbranch/carepulse/internal/services/intake/templates"
	"go.uber.org/zap"
	"golang.org/x/text/message"
)

const maxFormBytes = 64 << 10

type handlers struct {
	service service
	grants  *intakegrant.Grants
	logger  *zap.Logger
	policy  requestmeta.SchemePolicy
}

func newHandlers(s service, grants *intakegrant.Grants, logger *zap.Logger, policy requestmeta.SchemePolicy) handlers {
	return handlers{service: s, grants: grants, logger: logger, policy: policy}
}

// pageContext resolves the request language and persists an explicit choice.
func (h handlers) pageContext(w http.ResponseWriter, r *http.Request) (templates.PageContext, *message.Printer) {
	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	printer := i18n.Printer(tag)
	return templates.PageContext{
		Lang:         tag.String(),
		Loc:          printer,
		CurrentPath:  r.URL.Path,
		CurrentQuery: r.URL.RawQuery,
	}, printer
}

func (h handlers) handleFormGet(w http.ResponseWriter, r *http.Request) {
	page, printer := h.pageContext(w, r)
	h.renderForm(w, r, http.StatusOK, page, printer, form.NewBinding(form.PatientValues{}))
}

func (h handlers) handleFormPost(w http.ResponseWriter, r *http.Request) {
	page, printer := h.pageContext(w, r)
	if !requestmeta.SameOrigin(r, h.policy) {
		h.renderError(w, r, page, http.StatusForbidden, nil)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, page, http.StatusBadRequest, nil)
		return
	}

	binding := h.service.bind(printer, form.ValuesFromForm(r.PostForm))
	if !binding.Valid() {
		h.renderForm(w, r, http.StatusBadRequest, page, printer, binding)
		return
	}

	binding.BeginSubmit()
	user, err := h.service.createPatient(r.Context(), binding.Values())
	if err != nil {
		// The loading flag is left set on failure.
		h.logger.Error("create user failed",
			zap.String("request_id", httpx.RequestIDFromContext(r.Context())),
			zap.String("kind", string(apperrors.KindOf(err))),
			zap.Error(err),
		)
		h.renderForm(w, r, apperrors.HTTPStatus(err), page, printer, binding)
		return
	}

	if err := h.grants.SetCookie(w, user.ID, requestmeta.IsHTTPS(r, h.policy)); err != nil {
		h.logger.Error("issue intake grant failed",
			zap.String("request_id", httpx.RequestIDFromContext(r.Context())),
			zap.String("patient_id", user.ID),
			zap.Error(err),
		)
	}
	httpx.WriteRedirect(w, r, routepath.PatientRegister(user.ID))
}

func (h handlers) handleRegisterGet(w http.ResponseWriter, r *http.Request) {
	page, _ := h.pageContext(w, r)
	patientID := r.PathValue("patientID")
	if err := h.grants.VerifyRequest(r, patientID); err != nil {
		if !errors.Is(err, intakegrant.ErrMissing) {
			h.logger.Warn("intake grant rejected",
				zap.String("request_id", httpx.RequestIDFromContext(r.Context())),
				zap.String("patient_id", patientID),
				zap.Error(err),
			)
		}
		httpx.WriteRedirect(w, r, routepath.Root)
		return
	}

	user, err := h.service.loadPatient(r.Context(), patientID)
	if err != nil {
		status := apperrors.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("load patient failed",
				zap.String("request_id", httpx.RequestIDFromContext(r.Context())),
				zap.String("patient_id", patientID),
				zap.Error(err),
			)
		}
		h.renderError(w, r, page, status, err)
		return
	}
	render(w, r, http.StatusOK, templates.RegisterPage(page, templates.RegisterView{
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
	}))
}

func (h handlers) renderForm(w http.ResponseWriter, r *http.Request, status int, page templates.PageContext, printer *message.Printer, binding *form.Binding) {
	view := templates.PatientFormView{
		Fields:  form.PatientFields(printer, h.service.schema.Region()),
		Binding: binding,
	}
	render(w, r, status, templates.PatientFormPage(page, view))
}

func (h handlers) renderError(w http.ResponseWriter, r *http.Request, page templates.PageContext, status int, err error) {
	render(w, r, status, templates.ErrorPage(page, status, apperrors.LocalizationKey(err)))
}

func render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	templ.Handler(component, templ.WithStatus(status)).ServeHTTP(w, r)
}
