// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/curioloop/wolfe/functions"
	"github.com/curioloop/wolfe/linesearch"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"
)

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func tempDir() string {
	dir, err := os.MkdirTemp("", "wolfe")
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(os.RemoveAll, dir)
	return dir
}

func writeConfig(body string) string {
	path := filepath.Join(tempDir(), "wolfe.yaml")
	Expect(os.WriteFile(path, []byte(body), 0o600)).To(Succeed())
	return path
}

var _ = Describe("wolfe", func() {

	It("binds every persistent flag", func() {
		Expect(func() { newRootCmd() }).NotTo(Panic())
		root := newRootCmd()
		for _, name := range []string{"config", "method", "c1", "c2", "amax", "maxiter", "alpha1", "log-level", "log-pretty"} {
			Expect(root.PersistentFlags().Lookup(name)).NotTo(BeNil(), name)
		}
	})

	Describe("list", func() {
		It("prints every problem in order", func() {
			out, err := execute("list")
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.Fields(out)).To(Equal(functions.Names()))
		})
	})

	Describe("run", func() {
		It("converges on a single problem", func() {
			out, err := execute("run", "rational", "--log-level", "disabled")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("rational"))
			Expect(out).To(ContainSubstring("converged"))
			Expect(out).NotTo(ContainSubstring("quadratic"))
		})

		It("converges on every problem with both methods", func() {
			for _, method := range []string{"nocedal-wright", "more-thuente"} {
				out, err := execute("run", "--method", method, "--log-level", "disabled")
				Expect(err).NotTo(HaveOccurred())
				Expect(strings.Count(out, "converged")).To(Equal(len(functions.Names())), out)
			}
		})

		It("reports a search that does not converge", func() {
			out, err := execute("run", "rational", "--amax", "0.1", "--maxiter", "1", "--log-level", "disabled")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("max-iter-reached"))
		})

		It("rejects unknown problems", func() {
			_, err := execute("run", "rosenbrock")
			Expect(err).To(MatchError(ContainSubstring("unknown problem")))
		})

		It("rejects an unknown method", func() {
			_, err := execute("run", "--method", "backtracking")
			Expect(err).To(MatchError(ContainSubstring("unknown method")))
		})

		It("rejects inconsistent factors", func() {
			_, err := execute("run", "--c1", "0.95", "--c2", "0.5")
			Expect(err).To(MatchError(linesearch.ErrBadInput))
		})

		It("reads the environment", func() {
			Expect(os.Setenv("WOLFE_METHOD", "backtracking")).To(Succeed())
			DeferCleanup(os.Unsetenv, "WOLFE_METHOD")
			_, err := execute("run")
			Expect(err).To(MatchError(ContainSubstring("unknown method")))
		})
	})

	Describe("loadConfig", func() {
		It("uses the defaults without a file", func() {
			cfg, err := loadConfig(viper.New())
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(defaultConfig()))
		})

		It("reads a YAML file and lets flags override it", func() {
			path := writeConfig(`
method: minpack
c1: 0.001
amax: 20
problems: [quadratic, sine]
log:
  level: debug
`)
			v := viper.New()
			v.Set("config", path)
			v.Set("c2", 0.5)

			cfg, err := loadConfig(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Method).To(Equal("minpack"))
			Expect(cfg.C1).To(Equal(0.001))
			Expect(cfg.C2).To(Equal(0.5))
			Expect(cfg.Amax).To(Equal(20.0))
			Expect(cfg.Problems).To(Equal([]string{"quadratic", "sine"}))
			Expect(cfg.Log).To(Equal(LogConfig{Level: "debug"}))

			searcher, opts, err := cfg.searcher(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(searcher).To(Equal(linesearch.New(linesearch.MoreThuente)))
			Expect(opts.StepMax).To(Equal(linesearch.Known(20)))
		})

		It("accepts an empty file", func() {
			v := viper.New()
			v.Set("config", writeConfig(""))
			cfg, err := loadConfig(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(defaultConfig()))
		})

		It("rejects unknown keys", func() {
			v := viper.New()
			v.Set("config", writeConfig("methd: wolfe\n"))
			_, err := loadConfig(v)
			Expect(err).To(MatchError(ContainSubstring("parse config")))
		})

		It("reports a missing file", func() {
			v := viper.New()
			v.Set("config", filepath.Join(tempDir(), "missing.yaml"))
			_, err := loadConfig(v)
			Expect(err).To(MatchError(os.ErrNotExist))
		})
	})

	Describe("runAll", func() {
		It("keeps the input order", func() {
			cfg := defaultConfig()
			cfg.Log.Level = "disabled"
			problems := functions.All()
			results, err := runAll(context.Background(), &cfg, problems)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(len(problems)))
			for i, p := range problems {
				Expect(results[i].OK()).To(BeTrue(), p.Name)
				Expect(results[i].Phi).To(Equal(p.Phi(results[i].Alpha)), p.Name)
			}
		})

		It("stops on a cancelled context", func() {
			cfg := defaultConfig()
			cfg.Log.Level = "disabled"
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := runAll(ctx, &cfg, functions.All())
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})
