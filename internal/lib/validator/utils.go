package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/utils"

	govalidator "github.com/go-playground/validator/v10"
)

// structType accepts both values and pointers since handlers validate
// pointers to their input structs.
func structType(obj any) reflect.Type {
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func getFieldName(obj any, origFieldName string) (fieldName string) {
	t := structType(obj)
	field, found := t.FieldByName(origFieldName)
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", origFieldName, t.Name()))
	}
	if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
		jsonName := strings.Split(tag, ",")[0]
		if jsonName != "" {
			fieldName = jsonName
		}
	} else {
		fieldName = utils.CamelToSnake(origFieldName)
	}
	return
}

func ProcessValidationErrors(obj any, errs govalidator.ValidationErrors) map[string]string {
	processedErrors := make(map[string]string)
	for _, e := range errs {
		processedErrors[getFieldName(obj, e.StructField())] = GetErrorMsgForField(obj, e)
	}
	return processedErrors
}

func ValidateStruct(validator *govalidator.Validate, obj any) (validationErrs map[string]string) {
	if err := validator.Struct(obj); err != nil {
		validationErrs = ProcessValidationErrors(obj, err.(govalidator.ValidationErrors))
	}
	return
}

func GetErrorMsgForField(obj any, err govalidator.FieldError) (errorMsg string) {
	t := structType(obj)
	field, found := t.FieldByName(err.StructField())
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", err.StructField(), t.Name()))
	}
	errorMsg = field.Tag.Get("errorMsg")
	if errorMsg == "" {
		switch err.Tag() {
		case "required":
			errorMsg = "This field is required"
		case "max":
			errorMsg = fmt.Sprintf("The maximum value is %s", err.Param())
		case "min":
			errorMsg = fmt.Sprintf("The minimum value is %s", err.Param())
		case "gte":
			errorMsg = fmt.Sprintf("Value should be greater than or equal to %s", err.Param())
		case "lte":
			errorMsg = fmt.Sprintf("Value should be less than or equal to %s", err.Param())
		case "oneof":
			errorMsg = fmt.Sprintf("Value should be one of %s", err.Param())
		case "email":
			errorMsg = "Value must be a valid email address"
		case "username":
			errorMsg = "Value may contain only letters, digits and @/./+/-/_ characters"
		case "notreserved":
			errorMsg = fmt.Sprintf("Username %q is reserved", models.ReservedUsername)
		case "titleyear":
			errorMsg = "Release year must be between 0 and the current year"
		case "slugfield":
			errorMsg = "Value must be a valid slug (letters, digits, hyphens, underscores)"
		case "sortbytitlefield":
			errorMsg = "Value must be a name of one of the title fields (e.g. name, -year, etc...)"
		default:
			errorMsg = "This field is invalid"
		}
	}
	return
}

// CUSTOM VALIDATORS

var (
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

func ValidateUsername(fl govalidator.FieldLevel) bool {
	return usernameRe.MatchString(fl.Field().String())
}

func ValidateNotReserved(fl govalidator.FieldLevel) bool {
	return fl.Field().String() != models.ReservedUsername
}

func ValidateTitleYear(fl govalidator.FieldLevel) bool {
	year := fl.Field().Int()
	return year >= 0 && year <= int64(time.Now().Year())
}

func ValidateSlug(fl govalidator.FieldLevel) bool {
	return slugRe.MatchString(fl.Field().String())
}

func ValidateSortByTitleField(fl govalidator.FieldLevel) bool {
	sort := strings.TrimPrefix(fl.Field().String(), "-")
	for _, field := range []string{"id", "name", "year"} {
		if strings.EqualFold(sort, field) {
			return true
		}
	}
	return false
}
