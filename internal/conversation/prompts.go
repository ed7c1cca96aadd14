package conversation

import (
	"fmt"

	"github.com/suPer8Hu/dxcases/internal/ai"
)

const (
	persona            = "あなたはDX（開発者体験）の失敗事例を収集する共感的なアシスタントです。"
	extractInstruction = "ユーザーの回答から適切な情報を抽出し、function callingを使用して情報を返してください。"

	fallbackReply      = "会話を続けましょう。"
	confirmationPrefix = "情報が揃いました。以下の内容で送信してよろしいですか？\n\n"
)

const replyInstruction = "ユーザーへの次の返答だけを、日本語の自然な文章で返してください。"

// systemPrompt asks for the extraction function call.
func systemPrompt(state State, messages []ai.Message) string {
	return guidance(state, messages) + extractInstruction
}

// replyPrompt asks for the assistant's next line as plain text.
func replyPrompt(state State, messages []ai.Message) string {
	return guidance(state, messages) + replyInstruction
}

func guidance(state State, messages []ai.Message) string {
	firstReply := userTurns(messages) <= 1

	switch state {
	case StateWaitingForInitialSubmission:
		return persona + `

ユーザーが初めて失敗事例を入力したところです。まずは共感的な応答をして、ユーザーが安心して話せる雰囲気を作ってください。
例えば「それは大変でしたね」「なるほど、そういう状況だったんですね」などの言葉を使ってください。

その後、自然な流れで追加の詳細を聞いてください。ただし、質問攻めにならないよう注意してください。
会話を通じて以下の情報を自然に引き出せるとよいですが、強制的に聞き出す必要はありません：
- 失敗の概要
- いつ、どこで、誰が関わったか（もし自然に出てくれば）
- どのような影響があったか
- 原因や理由

`

	case StateAskingForAdditionalDetails:
		opening := "引き続き共感的な態度で会話を進めてください。"
		if firstReply {
			opening = "初めての応答では、まず共感を示し、ユーザーが安心して話せる雰囲気を作ってください。"
		}
		return fmt.Sprintf(`%s

%s

自然な流れで会話を続け、ユーザーの話に寄り添いながら、さりげなく詳細を引き出してください。
質問攻めにならないよう、一度に複数の質問をしないでください。

会話を通じて以下の情報を自然に引き出せるとよいですが、強制的に聞き出す必要はありません：
- 失敗の概要や状況の詳細
- どのような影響があったか
- 原因や理由

`, persona, opening)

	case StateAskingForSuggestions:
		return persona + `

これまでの会話で失敗事例についての基本的な情報が集まりました。
ここで、ユーザーに「こうすればよかった」「こうしておいてくれたら」といった改善案やアドバイスを聞いてみてください。

例えば以下のような質問が適切です：
「この経験から、次回はどうすればよいと思いますか？」
「こうしておけばよかったことや、改善したほうがいいと感じたことを教えてもらえますか？」
「同じような状況になった人へのアドバイスがあれば教えてください」

`

	case StateCompleted:
		return persona + `

会話が完了しました。ユーザーに感謝の言葉を伝え、情報が揃ったことを伝えてください。

`

	default:
		return persona + `

自然な会話を心がけ、ユーザーの感情に寄り添いながら情報を引き出してください。

`
	}
}

var extractFunction = ai.Function{
	Name:        "extract_conversation_data",
	Description: "Extract structured data from the conversation",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary":     stringProp("A summary of what happened in the DX failure scenario"),
			"when":        stringProp("When the failure occurred (if mentioned)"),
			"location":    stringProp("Where the failure occurred (if mentioned)"),
			"who":         stringProp("Who was involved in the failure (if mentioned)"),
			"impact":      stringProp("The impact or result of the failure"),
			"cause":       stringProp("The root cause or reason for the failure"),
			"suggestions": stringProp("Suggestions for improvement or advice"),
		},
		"required": []string{},
	},
}

func stringProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}
