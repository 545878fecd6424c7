package httpx

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samprabha/portal/internal/catalog"
	"github.com/samprabha/portal/internal/observability/metrics"
	"github.com/samprabha/portal/internal/observability/notify"
)

const (
	maxInquiryNameLen    = 120
	maxInquiryMessageLen = 4000
)

// MarketingHandlers serves the public pages. All content comes from the
// static catalog; no page here touches the database.
type MarketingHandlers struct {
	Renderer *TemplateRenderer
	Notifier notify.Sink
	Metrics  *metrics.Collector
	Logger   *slog.Logger
}

func (h *MarketingHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Home renders the landing page.
// GET /.
func (h *MarketingHandlers) Home(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "Samprabha Scientific Services", CurrentPage: "home"}).
		With("Services", catalog.Services()).
		With("Testimonials", catalog.Testimonials()).
		Build()
	h.render(w, r, "home", data)
}

// Services renders the service catalogue page.
// GET /services.
func (h *MarketingHandlers) Services(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "Our Services", CurrentPage: "services"}).
		With("Services", catalog.Services()).
		Build()
	h.render(w, r, "services", data)
}

// AnalyticalTesting renders the analytical testing facilitation page.
// GET /analytical-testing.
func (h *MarketingHandlers) AnalyticalTesting(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "Analytical Testing", CurrentPage: "analytical-testing"}).
		With("Tests", catalog.AnalyticalTests()).
		Build()
	h.render(w, r, "analytical_testing", data)
}

// About renders the about page.
// GET /about.
func (h *MarketingHandlers) About(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "About Us", CurrentPage: "about"}).
		With("Testimonials", catalog.Testimonials()).
		Build()
	h.render(w, r, "about", data)
}

// Contact renders the contact page with the inquiry form.
// GET /contact.
func (h *MarketingHandlers) Contact(w http.ResponseWriter, r *http.Request) {
	data := h.contactData(r)
	if svcID := r.URL.Query().Get("service"); svcID != "" {
		if _, ok := catalog.ServiceByID(svcID); ok {
			data.With("Form", inquiryForm{ServiceID: svcID})
		}
	}
	h.render(w, r, "contact", data.Build())
}

// SubmitInquiry accepts a contact form submission and forwards it to the
// notification sink. Delivery failures are logged but never shown as an
// error; the visitor always has the phone and WhatsApp fallbacks on the page.
// POST /contact.
func (h *MarketingHandlers) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	form := inquiryForm{
		Name:      strings.TrimSpace(r.PostFormValue("name")),
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Phone:     strings.TrimSpace(r.PostFormValue("phone")),
		ServiceID: strings.TrimSpace(r.PostFormValue("service")),
		Message:   strings.TrimSpace(r.PostFormValue("message")),
	}

	if msg := form.validate(); msg != "" {
		data := h.contactData(r).
			WithError(msg).
			With("Form", form).
			Build()
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.render(w, r, "contact", data)
		return
	}

	payload := notify.InquiryPayload{
		Name:       form.Name,
		Email:      form.Email,
		Phone:      form.Phone,
		ServiceID:  form.ServiceID,
		Message:    form.Message,
		ReceivedAt: time.Now(),
	}
	if svc, ok := catalog.ServiceByID(form.ServiceID); ok {
		payload.ServiceTitle = svc.Title
	}

	if h.Notifier != nil {
		if err := h.Notifier.SendInquiry(r.Context(), payload); err != nil {
			h.logger().ErrorContext(r.Context(), "inquiry notification failed",
				"error", err, "email", form.Email)
		}
	}
	h.Metrics.RecordInquiry()

	data := h.contactData(r).
		WithSuccess("Thank you! We received your inquiry and will get back to you shortly.").
		Build()
	h.render(w, r, "contact", data)
}

func (h *MarketingHandlers) contactData(r *http.Request) *TemplateData {
	return NewTemplateData(r, PageMeta{Title: "Contact Us", CurrentPage: "contact"}).
		With("Services", catalog.Services())
}

func (h *MarketingHandlers) render(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	if err := h.Renderer.RenderPage(w, page, data); err != nil {
		h.logger().ErrorContext(r.Context(), "page render failed", "page", page, "error", err)
	}
}

// inquiryForm carries the contact form fields through validation and
// re-rendering.
type inquiryForm struct {
	Name      string
	Email     string
	Phone     string
	ServiceID string
	Message   string
}

func (f inquiryForm) validate() string {
	if f.Name == "" {
		return "Please tell us your name."
	}
	if utf8.RuneCountInString(f.Name) > maxInquiryNameLen {
		return "Name is too long."
	}
	if f.Email == "" || !strings.Contains(f.Email, "@") {
		return "Please provide a valid email address."
	}
	if f.Message == "" {
		return "Please include a message."
	}
	if utf8.RuneCountInString(f.Message) > maxInquiryMessageLen {
		return "Message is too long. Please keep it under 4000 characters."
	}
	if f.ServiceID != "" {
		if _, ok := catalog.ServiceByID(f.ServiceID); !ok {
			return "Please pick a service from the list."
		}
	}
	return ""
}
