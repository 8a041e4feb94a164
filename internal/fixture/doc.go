// Package fixture manages resources whose lifetime is one test worker.
//
// A Scoped value is acquired lazily by the first test that asks for it,
// shared by every later test in the same worker, and released exactly once
// when the worker finishes. A Worker groups the scoped resources of one
// worker and releases them in reverse registration order; RunMain ties a
// Worker to TestMain so release also happens on SIGINT and SIGTERM.
//
// A Binding layers a per-test value over a scoped resource. Each test gets a
// fresh value built from the shared resource, and the value's teardown is
// registered with the test so it runs however the test ends.
//
// Typical use in a package's TestMain:
//
//	var (
//		worker = fixture.NewWorker("")
//		conn   = fixture.Provide(worker, "db", openDB, closeDB)
//		users  = fixture.Bind(conn, newUserStore)
//	)
//
//	func TestMain(m *testing.M) {
//		os.Exit(fixture.RunMain(m, worker))
//	}
//
//	func TestSomething(t *testing.T) {
//		s := users.For(t)
//		...
//	}
package fixture
