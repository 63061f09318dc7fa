// Package reflext assigns values through untyped pointers, as needed by caches
// that store interface{} values.
package reflext

import (
	"reflect"

	"github.com/pkg/errors"
)

// SetPointer stores srcValue into the value dstPtr points to. Both must have
// exactly the same type.
func SetPointer(dstPtr, srcValue interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch rerr := r.(type) {
			case error:
				err = rerr
			default:
				err = errors.Errorf("panic in reflective code: %v", rerr)
			}
		}
	}()

	dstPtrRv := reflect.ValueOf(dstPtr)
	if dstPtrRv.Kind() != reflect.Ptr || dstPtrRv.IsNil() {
		return errors.Errorf("destination must be a non-nil pointer, got %T", dstPtr)
	}

	valueRv := reflect.ValueOf(srcValue)
	if !valueRv.IsValid() {
		dstPtrRv.Elem().Set(reflect.Zero(dstPtrRv.Elem().Type()))
		return nil
	}
	if dstPtrRv.Elem().Type() != valueRv.Type() {
		return errors.Errorf("cannot assign %s to *%s", valueRv.Type(), dstPtrRv.Elem().Type())
	}
	dstPtrRv.Elem().Set(valueRv)
	return nil
}
