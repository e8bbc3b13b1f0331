// memstats.go --  This file is part of goHF project.
// Mirzaeva Irina, 2023
//
//	goHF is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------
package logger

import (
	"runtime"

	"go.uber.org/zap"
)

// LogMemStats writes the current heap statistics to log.
func LogMemStats(log *zap.SugaredLogger) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Infow("memory",
		"alloc_bytes", memStats.Alloc,
		"total_alloc_bytes", memStats.TotalAlloc,
		"heap_alloc_bytes", memStats.HeapAlloc,
		"heap_sys_bytes", memStats.HeapSys,
	)
}
