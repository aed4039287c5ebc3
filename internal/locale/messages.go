// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
)

// Translation keys.
const (
	KeyTagline            = "tagline"
	KeySubtext            = "subtext"
	KeyExplore            = "explore"
	KeyWelcomeBack        = "welcome_back"
	KeyEmailOrPhone       = "email_or_phone"
	KeyPassword           = "password"
	KeySignin             = "signin"
	KeySignup             = "signup"
	KeyForgot             = "forgot"
	KeyCreateAccount      = "create_account"
	KeyFullName           = "full_name"
	KeyEmail              = "email"
	KeyPhone              = "phone"
	KeyConfirmPassword    = "confirm_password"
	KeyAgree              = "agree"
	KeySubmit             = "submit"
	KeyHaveAccount        = "have_account"
	KeyBackToLogin        = "back_to_login"
	KeyRequired           = "required"
	KeyPasswordPolicy     = "password_policy"
	KeyPasswordMismatch   = "password_mismatch"
	KeyMustAgree          = "must_agree"
	KeyInvalidCredentials = "invalid_credentials"
	KeyInactivityWarning  = "inactivity_warning"
	KeyStayLoggedIn       = "stay_logged_in"
	KeyDashboard          = "dashboard"
	KeyBalancePreview     = "balance_preview"
	KeyLogout             = "logout"
	KeySignedInAs         = "signed_in_as"
	KeySessionExpired     = "session_expired"
	KeyRegistered         = "registered"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		KeyTagline:            "Banking made simple, secure and global.",
		KeySubtext:            "Sign in to continue to your dashboard.",
		KeyExplore:            "Explore",
		KeyWelcomeBack:        "Welcome back",
		KeyEmailOrPhone:       "Email, username or phone",
		KeyPassword:           "Password",
		KeySignin:             "Sign in",
		KeySignup:             "Create an account",
		KeyForgot:             "Forgot password?",
		KeyCreateAccount:      "Create your account",
		KeyFullName:           "Full name",
		KeyEmail:              "Email",
		KeyPhone:              "Phone",
		KeyConfirmPassword:    "Confirm password",
		KeyAgree:              "I agree to the terms and conditions",
		KeySubmit:             "Submit",
		KeyHaveAccount:        "Already have an account?",
		KeyBackToLogin:        "Back to login",
		KeyRequired:           "This field is required",
		KeyPasswordPolicy:     "Password must be at least 8 characters and contain a special character",
		KeyPasswordMismatch:   "Passwords do not match",
		KeyMustAgree:          "Please agree to terms",
		KeyInvalidCredentials: "Invalid credentials",
		KeyInactivityWarning:  "You will be logged out in %d seconds due to inactivity",
		KeyStayLoggedIn:       "Stay logged in",
		KeyDashboard:          "Dashboard",
		KeyBalancePreview:     "Mock balance preview in selected currency.",
		KeyLogout:             "Logout",
		KeySignedInAs:         "Signed in as %s",
		KeySessionExpired:     "Your session has ended. Please sign in again.",
		KeyRegistered:         "Account created. Please sign in.",
	},
	language.Japanese: {
		KeyTagline:            "シンプルで安全、そしてグローバルなバンキング。",
		KeySubtext:            "ダッシュボードに進むにはサインインしてください。",
		KeyExplore:            "はじめる",
		KeyWelcomeBack:        "おかえりなさい",
		KeyEmailOrPhone:       "メール、ユーザー名または電話番号",
		KeyPassword:           "パスワード",
		KeySignin:             "サインイン",
		KeySignup:             "アカウントを作成",
		KeyForgot:             "パスワードをお忘れですか？",
		KeyCreateAccount:      "アカウントを作成する",
		KeyFullName:           "氏名",
		KeyEmail:              "メール",
		KeyPhone:              "電話番号",
		KeyConfirmPassword:    "パスワード（確認）",
		KeyAgree:              "利用規約に同意します",
		KeySubmit:             "送信",
		KeyHaveAccount:        "すでにアカウントをお持ちですか？",
		KeyBackToLogin:        "ログインに戻る",
		KeyRequired:           "必須項目です",
		KeyPasswordPolicy:     "パスワードは8文字以上で記号を含める必要があります",
		KeyPasswordMismatch:   "パスワードが一致しません",
		KeyMustAgree:          "利用規約に同意してください",
		KeyInvalidCredentials: "認証情報が正しくありません",
		KeyInactivityWarning:  "操作がないため、%d秒後にログアウトします",
		KeyStayLoggedIn:       "ログインを続ける",
		KeyDashboard:          "ダッシュボード",
		KeyBalancePreview:     "選択した通貨での残高プレビュー（サンプル）。",
		KeyLogout:             "ログアウト",
		KeySignedInAs:         "%s としてサインイン中",
		KeySessionExpired:     "セッションが終了しました。再度サインインしてください。",
		KeyRegistered:         "アカウントを作成しました。サインインしてください。",
	},
}

var messages = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range translations {
		for key, msg := range entries {
			// Keys and messages are static; SetString only fails on malformed input.
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Translator renders translated strings for one locale.
type Translator struct {
	locale  Locale
	printer *message.Printer
}

// NewTranslator returns a translator for l.
func NewTranslator(l Locale) *Translator {
	return &Translator{
		locale:  l,
		printer: message.NewPrinter(l.Tag(), message.Catalog(messages)),
	}
}

// Locale returns the translator's locale.
func (t *Translator) Locale() Locale {
	return t.locale
}

// T looks up key and formats it with args.
func (t *Translator) T(key string, args ...interface{}) string {
	return t.printer.Sprintf(key, args...)
}

// FormatAmount renders amount with the currency symbol, grouped and rounded to
// the currency's standard minor units.
func (t *Translator) FormatAmount(c Currency, amount float64) string {
	return c.Symbol() + " " + t.printer.Sprint(number.Decimal(amount, number.Scale(c.Scale())))
}
