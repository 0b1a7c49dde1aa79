package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
)

// AnimateSystem eases local transforms toward their Animate targets.
type AnimateSystem struct {
	filter *ecs.Filter2[components.Animate, components.Transform]
}

// NewAnimateSystem creates an animation system.
func NewAnimateSystem(w *ecs.World) *AnimateSystem {
	return &AnimateSystem{filter: ecs.NewFilter2[components.Animate, components.Transform](w)}
}

// Update advances every animation by dt seconds.
func (s *AnimateSystem) Update(dt float32) {
	query := s.filter.Query()
	for query.Next() {
		anim, tr := query.Get()
		switch anim.Kind {
		case components.AnimateMoveToward:
			diff := anim.Target.Sub(tr.Translation)
			if diff.Dot(diff) > 0.05 {
				dist := diff.Len()
				step := dist
				if d := dt * anim.Speed; d < step {
					step = d
				}
				tr.Translation = tr.Translation.Add(diff.Mul(step / dist))
			}
		case components.AnimateResizeTo:
			if tr.Scale.Sub(anim.Target).Len() > 0.01 {
				f := clampFloat(anim.Speed*dt, 0, 1)
				tr.Scale = tr.Scale.Add(anim.Target.Sub(tr.Scale).Mul(f))
			}
		}
	}
}
