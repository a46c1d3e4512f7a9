package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/lucifer-kj/review-app-sub002/internal/config"
	"github.com/lucifer-kj/review-app-sub002/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template, themed with
// the tenant's primary color.
func (t *Templates) baseHTML(title, primaryColor, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: %s; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .stars { text-align: center; margin: 20px 0; }
        .star { display: inline-block; font-size: 32px; text-decoration: none; margin: 0 4px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>Sent via %s</p>
    </div>
</body>
</html>`,
		html.EscapeString(title),
		primaryColor,
		html.EscapeString(title),
		content,
		html.EscapeString(t.cfg.SiteTitle),
	)
}

// ReviewRequest generates the review-request email: a greeting plus five
// one-tap star links, ordered 1 to 5. The links carry the signed payload;
// the recipient's rating is confirmed by which star they tap.
func (t *Templates) ReviewRequest(tenant *models.Tenant, customerName string, links [5]string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("How was your experience at %s?", tenant.Name)

	greeting := "Hi"
	if customerName != "" {
		greeting = "Hi " + customerName
	}

	var stars strings.Builder
	for i, link := range links {
		fmt.Fprintf(&stars, `<a class="star" href="%s" title="%d star">%s</a>`,
			html.EscapeString(link), i+1, strings.Repeat("⭐", 1))
	}

	content := fmt.Sprintf(`
        <p>%s,</p>
        <p>Thanks for visiting <strong>%s</strong>. How did we do? Tap a star to rate us:</p>
        <div class="stars">%s</div>
        <p>Your feedback takes less than a minute and helps us improve.</p>
    `,
		html.EscapeString(greeting),
		html.EscapeString(tenant.Name),
		stars.String(),
	)

	htmlBody = t.baseHTML(subject, tenant.PrimaryColor, content)

	var textLinks strings.Builder
	for i, link := range links {
		fmt.Fprintf(&textLinks, "%d star: %s\n", i+1, link)
	}

	textBody = fmt.Sprintf(`%s,

Thanks for visiting %s. How did we do? Open a link to rate us:

%s
Your feedback takes less than a minute and helps us improve.

--
%s`,
		greeting,
		tenant.Name,
		textLinks.String(),
		t.cfg.SiteTitle,
	)

	return subject, htmlBody, textBody
}
