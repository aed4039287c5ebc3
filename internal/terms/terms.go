// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terms holds the terms of service shown at signup and by
// `credexa terms`, rendered as terminal markdown.
package terms

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/credexa/credexa-tui/internal/locale"
)

// DefaultWidth is the wrap width used when the caller has no terminal size.
const DefaultWidth = 80

const english = `# Credexa Terms of Service

By creating an account you agree to the following.

## Your account

- You are responsible for keeping your password secret.
- Sessions end automatically after a period of **inactivity**.
- Balances shown in the dashboard are previews and are not statements.

## Your data

- Your preferred language and currency are stored on this device.
- Your session token is stored on this device until you sign out.

## Contact

Questions about these terms can be sent to your bank's support desk.
`

const japanese = `# Credexa 利用規約

アカウントを作成することで、以下に同意したものとみなされます。

## アカウント

- パスワードの管理はお客様の責任で行ってください。
- 一定時間 **操作がない** 場合、セッションは自動的に終了します。
- ダッシュボードの残高はプレビューであり、取引明細ではありません。

## データ

- 言語と通貨の設定はこの端末に保存されます。
- セッショントークンはサインアウトするまでこの端末に保存されます。

## お問い合わせ

本規約に関するご質問は、銀行のサポート窓口までお問い合わせください。
`

// Markdown returns the terms source for l.
func Markdown(l locale.Locale) string {
	if l == locale.Japanese {
		return japanese
	}
	return english
}

// Render renders the terms for l wrapped at width columns.
func Render(l locale.Locale, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(Markdown(l))
	if err != nil {
		return "", fmt.Errorf("rendering terms: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}
