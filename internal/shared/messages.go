package shared

import "errors"

// UserSafeMessage translates internal errors into text that can be shown on
// a page. Unknown errors collapse into a generic message so that database
// details never leak into the UI.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "Data tidak ditemukan"
	case errors.Is(err, ErrInvalidCredentials):
		return "Email atau password tidak valid"
	default:
		return "Terjadi kesalahan, silakan coba lagi"
	}
}
