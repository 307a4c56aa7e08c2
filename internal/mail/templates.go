package mail

import "fmt"

func verificationBody(username, code string) string {
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:480px">
<h2>Hello, %s</h2>
<p>Thanks for signing up. Enter this code to verify your email address:</p>
<p style="font-size:28px;letter-spacing:6px;font-weight:bold">%s</p>
<p>The code expires in 1 hour. If you didn't create an account, ignore this message.</p>
</div>`, username, code)
}

func welcomeBody(username string) string {
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:480px">
<h2>Welcome, %s!</h2>
<p>Your email is verified and your account is ready to use.</p>
</div>`, username)
}

func resetBody(username, resetURL string) string {
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:480px">
<h2>Hello, %s</h2>
<p>We received a request to reset your password. Click the link below to choose a new one:</p>
<p><a href="%s">%s</a></p>
<p>The link expires in 1 hour. If you didn't request a reset, ignore this message.</p>
</div>`, username, resetURL, resetURL)
}

func resetSuccessBody(username string) string {
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:480px">
<h2>Hello, %s</h2>
<p>Your password was changed successfully. If this wasn't you, contact support immediately.</p>
</div>`, username)
}
