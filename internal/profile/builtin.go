package profile

// DefaultLUTBaseURL hosts the MIT-licensed G'MIC film LUTs the built-in
// profiles reference.
const DefaultLUTBaseURL = "https://raw.githubusercontent.com/YahiaAngelo/Film-Luts/main/luts"

func stock(cat Category, id, name, desc, lut string, grain Grain, contrast, saturation float64) Profile {
	kind := NegativeColor
	switch {
	case saturation == 0:
		kind = Monochrome
	case cat == CategorySlide:
		kind = Slide
	case cat == CategoryInstant:
		kind = Instant
	}
	return Profile{
		ID:          id,
		Name:        name,
		Description: desc,
		Category:    cat,
		Kind:        kind,
		LUT:         lut,
		Grain:       grain,
		Base:        Base{Contrast: contrast, Saturation: saturation},
	}
}

func cinestill() Profile {
	p := stock(CategoryColor, "cinestill800t", "Cinestill 800T", "Tungsten, halation glow", "",
		Grain{0.28, 1.5, 800}, 0.05, 0.95)
	p.Process = ProcessHalation
	p.Halation = &Halation{
		Enabled:   true,
		Intensity: 0.4,
		Radius:    20,
		Threshold: 200,
		Color:     RGB8{255, 90, 50},
	}
	p.ColorShift = &ColorShift{
		Temperature: -25,
		Tint:        8,
		Shadows:     RGBOffset{5, 0, 15},
		Highlights:  RGBOffset{10, -5, -15},
	}
	return p
}

func builtin() []Profile {
	c, s, bw, in := CategoryColor, CategorySlide, CategoryBW, CategoryInstant
	return []Profile{
		stock(c, "original", "Original", "No film emulation, just adjustments", "", Grain{0.15, 1.0, 400}, 0, 1.0),
		stock(c, "portra160", "Kodak Portra 160", "Neutral color, fine grain", "negative_new/kodak_portra_160.cube", Grain{0.12, 1.0, 160}, 0, 1.0),
		stock(c, "portra400", "Kodak Portra 400", "Most popular portrait film", "negative_new/kodak_portra_400.cube", Grain{0.18, 1.2, 400}, 0, 1.0),
		stock(c, "portra800", "Kodak Portra 800", "Low light portrait film", "negative_new/kodak_portra_800.cube", Grain{0.28, 1.4, 800}, 0, 1.0),
		stock(c, "ektar100", "Kodak Ektar 100", "High saturation, fine grain", "negative_color/kodak_ektar_100.cube", Grain{0.08, 0.8, 100}, 0.05, 1.1),
		stock(c, "gold200", "Kodak Gold 200", "Warm, nostalgic consumer film", "negative_color/kodak_elite_color_200.cube", Grain{0.18, 1.2, 200}, 0, 1.05),
		stock(c, "fuji400h", "Fuji Pro 400H", "Pastel tones, wedding favorite", "negative_new/fuji_400h.cube", Grain{0.15, 1.1, 400}, 0, 0.95),
		stock(c, "fuji160c", "Fuji Pro 160C", "Cool tones, fine grain", "negative_new/fuji_160c.cube", Grain{0.10, 0.9, 160}, 0, 1.0),
		stock(c, "superia400", "Fuji Superia 400", "Classic consumer film", "negative_old/fuji_superia_400.cube", Grain{0.20, 1.2, 400}, 0, 1.0),
		stock(c, "superia800", "Fuji Superia X-TRA 800", "High ISO, grainy", "negative_color/fuji_superia_x-tra_800.cube", Grain{0.30, 1.5, 800}, 0, 1.0),
		stock(c, "agfavista", "Agfa Vista 200", "Punchy colors, budget film", "negative_color/agfa_vista_200.cube", Grain{0.18, 1.2, 200}, 0, 1.05),
		stock(c, "redscale", "Lomography Redscale 100", "Red/orange shifted", "negative_color/lomography_redscale_100.cube", Grain{0.20, 1.2, 100}, 0.05, 1.1),
		cinestill(),

		stock(s, "classicchrome", "Fuji Classic Chrome", "Muted, documentary style", "fujixtransiii/fuji_xtrans_iii_classic_chrome.cube", Grain{0.10, 0.9, 200}, 0.05, 0.9),
		stock(s, "astia", "Fuji Astia", "Soft, portrait-friendly", "fujixtransiii/fuji_xtrans_iii_astia.cube", Grain{0.08, 0.8, 100}, 0, 1.0),
		stock(s, "pronegstd", "Fuji Pro Neg Std", "Soft contrast, portraits", "fujixtransiii/fuji_xtrans_iii_pro_neg_std.cube", Grain{0.08, 0.8, 160}, -0.05, 0.95),
		stock(s, "proneghi", "Fuji Pro Neg Hi", "Higher contrast portraits", "fujixtransiii/fuji_xtrans_iii_pro_neg_hi.cube", Grain{0.08, 0.8, 160}, 0.05, 0.95),
		stock(s, "velvia50", "Fuji Velvia 50", "Extreme saturation, vivid", "fujixtransiii/fuji_xtrans_iii_velvia.cube", Grain{0.06, 0.7, 50}, 0.1, 1.2),
		stock(s, "provia", "Fuji Provia", "Standard, neutral colors", "fujixtransiii/fuji_xtrans_iii_provia.cube", Grain{0.08, 0.8, 100}, 0, 1.0),
		stock(s, "kodachrome25", "Kodak Kodachrome 25", "Legendary, finest grain", "colorslide/kodak_kodachrome_25.cube", Grain{0.05, 0.6, 25}, 0.05, 1.08),
		stock(s, "kodachrome64", "Kodak Kodachrome 64", "Classic warm look", "colorslide/kodak_kodachrome_64.cube", Grain{0.07, 0.75, 64}, 0.05, 1.05),
		stock(s, "ektachrome100vs", "Kodak Ektachrome 100VS", "Vivid saturation", "colorslide/kodak_ektachrome_100vs.cube", Grain{0.08, 0.85, 100}, 0.05, 1.15),

		stock(bw, "acros", "Fuji Acros", "Clean, modern B&W", "fujixtransiii/fuji_xtrans_iii_acros.cube", Grain{0.08, 0.8, 100}, 0, 0),
		stock(bw, "acrosg", "Fuji Acros +G", "Green filter, landscapes", "fujixtransiii/fuji_xtrans_iii_acros+g.cube", Grain{0.08, 0.8, 100}, 0, 0),
		stock(bw, "acrosr", "Fuji Acros +R", "Red filter, dramatic skies", "fujixtransiii/fuji_xtrans_iii_acros+r.cube", Grain{0.08, 0.8, 100}, 0.05, 0),
		stock(bw, "mono", "Fuji Mono", "Standard monochrome", "fujixtransiii/fuji_xtrans_iii_mono.cube", Grain{0.10, 0.9, 200}, 0, 0),
		stock(bw, "trix400", "Kodak Tri-X 400", "Classic, high contrast", "negative_new/kodak_tri-x_400.cube", Grain{0.35, 1.6, 400}, 0.1, 0),
		stock(bw, "tmax100", "Kodak T-Max 100", "Fine grain, sharp", "bw/kodak_t-max_100.cube", Grain{0.10, 0.9, 100}, 0.05, 0),
		stock(bw, "tmax400", "Kodak T-Max 400", "Modern fine grain", "bw/kodak_t-max_400.cube", Grain{0.20, 1.2, 400}, 0.05, 0),
		stock(bw, "tmax3200", "Kodak T-Max 3200", "High speed, grainy", "negative_new/kodak_tmax_3200.cube", Grain{0.50, 2.2, 3200}, 0.1, 0),
		stock(bw, "hp5", "Ilford HP5 Plus 400", "Versatile, classic", "negative_new/ilford_hp_5.cube", Grain{0.28, 1.4, 400}, 0, 0),
		stock(bw, "delta3200", "Ilford Delta 3200", "Heavy grain, moody", "negative_old/ilford_delta_3200.cube", Grain{0.55, 2.4, 3200}, 0.1, 0),
		stock(bw, "neopan1600", "Fuji Neopan 1600", "High speed, dramatic", "negative_old/fuji_neopan_1600.cube", Grain{0.45, 2.0, 1600}, 0.1, 0),
		stock(bw, "sepia", "Fuji Sepia", "Warm sepia toning", "fujixtransiii/fuji_xtrans_iii_sepia.cube", Grain{0.15, 1.1, 200}, 0, 0),

		stock(in, "px70warm", "Polaroid PX-70 Warm", "Classic warm Polaroid", "instant_consumer/polaroid_px-70_warm.cube", Grain{0.25, 1.4, 160}, 0, 1.0),
		stock(in, "px70cold", "Polaroid PX-70 Cold", "Cool tone Polaroid", "instant_consumer/polaroid_px-70_cold.cube", Grain{0.25, 1.4, 160}, 0, 1.0),
		stock(in, "px680warm", "Polaroid PX-680 Warm", "Warm vintage instant", "instant_consumer/polaroid_px-680_warm.cube", Grain{0.28, 1.5, 600}, 0, 1.0),
		stock(in, "px680cold", "Polaroid PX-680 Cold", "Cool vintage instant", "instant_consumer/polaroid_px-680_cold.cube", Grain{0.28, 1.5, 600}, 0, 1.0),
		stock(in, "timezero", "Polaroid Time Zero", "Expired film look", "instant_consumer/polaroid_time-zero_expired.cube", Grain{0.30, 1.6, 80}, 0, 0.95),
		stock(in, "timezerocold", "Time Zero Cold", "Expired cold tone", "instant_consumer/polaroid_time-zero_expired_cold.cube", Grain{0.30, 1.6, 80}, 0, 0.95),
		stock(in, "polaroid664", "Polaroid 664", "B&W pack film", "bw/polaroid_664.cube", Grain{0.25, 1.5, 100}, 0, 0),
		stock(in, "polaroid667", "Polaroid 667", "B&W high contrast", "bw/polaroid_667.cube", Grain{0.30, 1.6, 3000}, 0.1, 0),
	}
}
