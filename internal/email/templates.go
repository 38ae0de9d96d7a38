package email

import (
	"fmt"

	"digivera_backend/internal/models"
)

// AlertSubject picks the subject line for a severity tier
func AlertSubject(severity models.AlertSeverity) string {
	if severity == models.SeverityHigh {
		return "DIGIVERA: Critical Security Alert"
	}
	return "DIGIVERA: Security Warning"
}

// AlertBody renders the weekly auto-scan notification
func AlertBody(name, message string, findings models.Findings, score int, severity models.AlertSeverity) string {
	heading := "Security Warning"
	color := "#ffc107"
	if severity == models.SeverityHigh {
		heading = "Critical Alert"
		color = "#dc3545"
	}

	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: %s;">%s</h2>
  <p>Hi %s,</p>
  <p>%s</p>
  <div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <h3>Scan Results:</h3>
    <ul>
      <li><strong>Public Exposure:</strong> %d</li>
      <li><strong>Public Mentions:</strong> %d</li>
      <li><strong>Risk Score:</strong> %d/100</li>
      <li><strong>Severity:</strong> %s</li>
    </ul>
  </div>
  <p>Login to your DIGIVERA dashboard to view the detailed report.</p>
  <p style="color: #6c757d; font-size: 12px; margin-top: 30px;">
    This is an automated weekly scan for PRO users.
  </p>
</div>`, color, heading, name, message, findings.PublicExposure, findings.PublicMentions, score, severity)
}

// PasswordResetBody renders the reset-link email
func PasswordResetBody(name, resetToken string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Password Reset</h2>
  <p>Hi %s,</p>
  <p>We received a request to reset your password. Use the token below within one hour:</p>
  <p style="background-color: #f8f9fa; padding: 15px; border-radius: 5px; font-family: monospace;">%s</p>
  <p>If you did not request this, you can safely ignore this email.</p>
</div>`, name, resetToken)
}
