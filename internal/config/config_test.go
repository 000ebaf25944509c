package config

import (
	"path/filepath"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DefaultConfig", func() {
	It("fills every field a run needs", func() {
		cfg := DefaultConfig()
		Expect(cfg.N).To(Equal(DefaultN))
		Expect(cfg.Dt).To(BeNumerically(">", 0))
		Expect(cfg.SaveEvery).To(BeNumerically(">=", 1))
		Expect(cfg.Init).To(Equal("random"))
		Expect(cfg.CheckFinite).To(BeTrue())
	})
})

var _ = Describe("ToParams", func() {
	It("derives A, K and M from the interfacial parameters", func() {
		p, err := DefaultConfig().ToParams()
		Expect(err).NotTo(HaveOccurred())

		Expect(p.A).To(BeNumerically("~", 3e-20, 1e-23))
		Expect(p.K).To(BeNumerically("~", 3e-19, 1e-22))
		Expect(p.M).To(BeNumerically("~", 5e8, 1e6))
	})

	It("keeps sigma = sqrt(K*A)/3 and delta = sqrt(K/A) consistent", func() {
		cfg := DefaultConfig()
		p, err := cfg.ToParams()
		Expect(err).NotTo(HaveOccurred())

		Expect(p.K * p.A).To(BeNumerically("~", 9*cfg.Sigma*cfg.Sigma, 1e-41))
		Expect(p.K / p.A).To(BeNumerically("~", cfg.Delta*cfg.Delta, 1e-3))
	})

	It("lets explicit coefficients win over the derivation", func() {
		cfg := DefaultConfig()
		cfg.A = 7
		cfg.K = 11
		cfg.M = 13

		p, err := cfg.ToParams()
		Expect(err).NotTo(HaveOccurred())
		Expect(p.A).To(Equal(7.0))
		Expect(p.K).To(Equal(11.0))
		Expect(p.M).To(Equal(13.0))
	})

	It("fails when nothing is available to derive from", func() {
		cfg := DefaultConfig()
		cfg.Sigma = 0

		_, err := cfg.ToParams()
		Expect(err).To(HaveOccurred())
	})

	It("rejects invalid resolved parameters", func() {
		cfg := DefaultConfig()
		cfg.Dt = -1

		_, err := cfg.ToParams()
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Load and Save", func() {
	It("round-trips through yaml", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "run.yaml")

		cfg := DefaultConfig()
		cfg.N = 64
		cfg.Seed = 7
		cfg.Init = "droplet"
		Expect(Save(path, cfg)).To(Succeed())

		loaded, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.N).To(Equal(64))
		Expect(loaded.Seed).To(Equal(int64(7)))
		Expect(loaded.Init).To(Equal("droplet"))
	})

	It("fails on a missing file", func() {
		_, err := Load("/nonexistent/run.yaml")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Presets", func() {
	It("lists known presets in order", func() {
		names := ListPresets()
		Expect(names).To(ContainElement("spinodal"))
		Expect(sort.StringsAreSorted(names)).To(BeTrue())
	})

	It("fills defaults for fields a preset leaves unset", func() {
		cfg := GetPreset("spinodal")
		Expect(cfg).NotTo(BeNil())
		Expect(cfg.N).To(Equal(128))
		Expect(cfg.Dt).To(Equal(DefaultDt))
		Expect(cfg.Sigma).To(Equal(DefaultSigma))
	})

	It("returns nil for unknown names", func() {
		Expect(GetPreset("nope")).To(BeNil())
	})
})

var _ = Describe("InitialField", func() {
	It("builds each named initial condition at the configured size", func() {
		cfg := DefaultConfig()
		cfg.N = 16
		for _, name := range []string{"random", "sinusoidal", "constant", "droplet", "checkerboard"} {
			cfg.Init = name
			f, err := cfg.InitialField()
			Expect(err).NotTo(HaveOccurred(), "init %q", name)
			Expect(f.N).To(Equal(16))
		}
	})

	It("rejects unknown initial conditions", func() {
		cfg := DefaultConfig()
		cfg.Init = "plasma"
		_, err := cfg.InitialField()
		Expect(err).To(HaveOccurred())
	})
})
