package interfaces

import "context"

// A Getter loads the value for a key missing from the cache.
type Getter interface {
	Get(ctx context.Context, key int) (int, error)
}

// A GetterFunc implements Getter with a function.
// 函数类型实现某一个接口, 称之为接口型函数, 调用时既能够传入函数, 也能够传入实现了该接口的结构体。
type GetterFunc func(ctx context.Context, key int) (int, error)

// Get implements Getter interface function
func (f GetterFunc) Get(ctx context.Context, key int) (int, error) {
	return f(ctx, key)
}
