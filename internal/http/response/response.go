// Package response содержит вспомогательные функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Формат единый для всех
// операций: {"success": true, ...} при успехе и
// {"success": false, "errors": {"поле": "сообщение"}} при ошибке.
package response

// OK возвращает успешный ответ без данных.
func OK() map[string]any {
	return map[string]any{"success": true}
}

// OKWith возвращает успешный ответ с одним именованным полем данных,
// например "order" или "orders".
func OKWith(key string, value any) map[string]any {
	return map[string]any{"success": true, key: value}
}

// OKFields возвращает успешный ответ с несколькими полями данных.
func OKFields(fields map[string]any) map[string]any {
	out := map[string]any{"success": true}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// Fail возвращает ответ с ошибками по полям.
func Fail(errs map[string]string) map[string]any {
	return map[string]any{"success": false, "errors": errs}
}

// FailGeneral возвращает ответ с одной общей ошибкой.
func FailGeneral(msg string) map[string]any {
	return Fail(map[string]string{"general": msg})
}
