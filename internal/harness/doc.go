// Package harness composes the database fixtures used by tests: a
// worker-scoped connection and the user data-access façade built over it.
//
// A test binary typically wires it once in TestMain:
//
//	var db *harness.DB
//
//	func TestMain(m *testing.M) {
//		cfg, err := config.Load()
//		if err != nil {
//			fmt.Fprintln(os.Stderr, err)
//			os.Exit(2)
//		}
//		w := fixture.NewWorker("")
//		db = harness.New(w, cfg.Database)
//		os.Exit(fixture.RunMain(m, w))
//	}
//
// and each test asks for the façade:
//
//	users := db.Users.For(t)
package harness
