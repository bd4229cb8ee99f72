package configmanager

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/mdpipeline/mdpctl/pkg/apis/pipeline/v1alpha1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		metav1DurationDecodeHook(),
		enumDecodeHook(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// metav1DurationDecodeHook accepts "30s" style strings and plain nanosecond numbers.
func metav1DurationDecodeHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, target reflect.Type, data any) (any, error) {
		if target != reflect.TypeFor[metav1.Duration]() {
			return data, nil
		}

		switch value := data.(type) {
		case string:
			if value == "" {
				return metav1.Duration{}, nil
			}

			parsed, err := time.ParseDuration(value)
			if err != nil {
				return nil, fmt.Errorf("parse duration %q: %w", value, err)
			}

			return metav1.Duration{Duration: parsed}, nil
		case time.Duration:
			return metav1.Duration{Duration: value}, nil
		case int:
			return metav1.Duration{Duration: time.Duration(value)}, nil
		case int64:
			return metav1.Duration{Duration: time.Duration(value)}, nil
		case float64:
			return metav1.Duration{Duration: time.Duration(value)}, nil
		default:
			return data, nil
		}
	}
}

// enumDecodeHook normalises enum casing so "API" and "api" both decode.
func enumDecodeHook() mapstructure.DecodeHookFuncType {
	return func(source reflect.Type, target reflect.Type, data any) (any, error) {
		if source.Kind() != reflect.String {
			return data, nil
		}

		raw, _ := data.(string)

		switch target {
		case reflect.TypeFor[v1alpha1.Backend]():
			return v1alpha1.Backend(strings.ToLower(raw)), nil
		case reflect.TypeFor[v1alpha1.StageKind]():
			return v1alpha1.StageKind(strings.ToLower(raw)), nil
		case reflect.TypeFor[v1alpha1.WaitKind]():
			return v1alpha1.WaitKind(strings.ToLower(raw)), nil
		default:
			return data, nil
		}
	}
}
