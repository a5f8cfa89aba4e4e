package apiclient

// Route path constants, relative to the API base URL
const (
	// Auth Routes - Signup
	RouteSignupSendOTP   = "/auth/signup/send-otp"
	RouteSignupVerifyOTP = "/auth/signup/verify-otp"

	// Auth Routes - Signin
	RouteSigninSendOTP   = "/auth/signin/send-otp"
	RouteSigninVerifyOTP = "/auth/signin/verify-otp"

	// Auth Routes - Session
	RouteLogout  = "/auth/logout"
	RouteProfile = "/auth/profile"

	// Notes Routes
	RouteNotes = "/notes"
)
