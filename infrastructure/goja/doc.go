// Package goja implements the script engine port on the goja
// interpreter, a pure Go ECMAScript implementation.
//
// Each environment wraps a fresh goja runtime, so concurrent
// compositions never share interpreter state. Compiled programs are
// cached per script name on the engine; the embedded bootstrap, module,
// and driver sources compile once per process.
//
// # Basic Usage
//
//	engine := goja.New()
//	env, err := engine.NewEnvironment(ctx)
//	if err != nil {
//	    return err
//	}
//	defer env.Close()
//
//	err = env.Bind("__federation_print", printFunc)
//	err = env.Run(ctx, "runtime.js", bootstrapSource)
//
// Bound capabilities surface as global functions taking one string
// argument. A capability error is thrown into the script as an
// exception; an uncaught exception comes back as the Run error.
package goja
