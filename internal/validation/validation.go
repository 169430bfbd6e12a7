// Package validation реализует проверку полей регистрации и заявок.
//
// Rules оборачивает go-playground/validator: регистрирует доменные теги
// (кириллическое ФИО, российский телефон, упрощённый email, закрытый
// перечень услуг) и собирает все нарушения в карту "поле → сообщение".
// Пустая карта означает, что данные корректны. Проверки чистые и не
// зависят от хранилища, поэтому вызываются и до создания учётной записи,
// и в бизнес-логике заявок.
package validation

import (
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator"

	"github.com/mkotelnikova/cleaning-portal/internal/models"
)

// Форматы полей, один в один с анкетами портала.
var (
	cyrillicRegex = regexp.MustCompile(`^[А-Яа-яЁё\s]+$`)
	phoneRegex    = regexp.MustCompile(`^\+7\(\d{3}\)-\d{3}-\d{2}-\d{2}$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

var serviceTypes = map[string]struct{}{
	models.ServiceGeneral:          {},
	models.ServiceDeep:             {},
	models.ServicePostConstruction: {},
	models.ServiceUpholstery:       {},
	models.ServiceWindows:          {},
	models.ServiceOther:            {},
}

// Errors — нарушения валидации по именам полей.
// Реализует error, чтобы бизнес-логика могла вернуть их как обычную ошибку.
type Errors map[string]string

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for field, msg := range e {
		msgs = append(msgs, field+": "+msg)
	}
	sort.Strings(msgs)
	return strings.Join(msgs, ", ")
}

// Rules проверяет структуры запросов по validate-тегам.
type Rules struct {
	v *validator.Validate
}

// New создает Rules с зарегистрированными доменными тегами.
// Имена полей в ошибках берутся из json-тегов, чтобы совпадать
// с полями формы на клиенте.
func New() *Rules {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Ошибки регистрации кастомных тегов возможны только при пустом имени тега.
	_ = v.RegisterValidation("cyrillic", func(fl validator.FieldLevel) bool {
		return cyrillicRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("ruphone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
		return emailRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("servicetype", func(fl validator.FieldLevel) bool {
		_, ok := serviceTypes[fl.Field().String()]
		return ok
	})
	return &Rules{v: v}
}

// Check валидирует структуру и возвращает все нарушения разом,
// без раннего выхода. Возвращает nil, если нарушений нет.
func (r *Rules) Check(s any) Errors {
	err := r.v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{"general": "некорректный запрос"}
	}
	out := Errors{}
	for _, fe := range verrs {
		// Для поля оставляем первое нарушение: required важнее формата.
		if _, exists := out[fe.Field()]; exists {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return "обязательное поле"
	case "min":
		return "минимум " + fe.Param() + " символов"
	case "max":
		return "максимум " + fe.Param() + " символов"
	case "cyrillic":
		return "только кириллические символы и пробелы"
	case "ruphone":
		return "телефон в формате +7(XXX)-XXX-XX-XX"
	case "simpleemail":
		return "некорректный email"
	case "servicetype":
		return "неизвестный вид услуги"
	case "oneof":
		return "недопустимое значение"
	default:
		return "некорректное значение"
	}
}
